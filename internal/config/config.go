package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Extraction ExtractionConfig `mapstructure:"extraction" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// CacheConfig contains the paper read-cache settings. When RedisAddr is
// empty the service falls back to an in-process cache, so none of the
// fields are strictly required.
type CacheConfig struct {
	RedisAddr  string `mapstructure:"redis_addr"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gte=0"`
}

// ExtractionConfig contains the text-extraction pipeline settings: the
// Gemini credentials, where uploads are spooled, and the worker/queue
// bounds for background processing.
type ExtractionConfig struct {
	GeminiAPIKey              string `mapstructure:"gemini_api_key"               validate:"required"`
	ModelName                 string `mapstructure:"model_name"                   validate:"required"`
	UploadDir                 string `mapstructure:"upload_dir"                   validate:"required"`
	TimeoutSeconds            int    `mapstructure:"timeout_seconds"              validate:"gt=0"`
	WorkerCount               int    `mapstructure:"worker_count"                 validate:"gt=0"`
	QueueSize                 int    `mapstructure:"queue_size"                   validate:"gt=0"`
	MaxProcessingAgeSeconds   int    `mapstructure:"max_processing_age_seconds"   validate:"gt=0"`
	StuckCheckIntervalSeconds int    `mapstructure:"stuck_check_interval_seconds" validate:"gt=0"`
}
