package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config.yaml in the working
// directory and from environment variables with the PAPERAPI_ prefix.
// Environment variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PAPERAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Empty defaults so AutomaticEnv can populate keys absent from the
	// config file; validation rejects the empty values afterwards.
	v.SetDefault("database.url", "")
	v.SetDefault("extraction.gemini_api_key", "")

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl_seconds", 300)

	v.SetDefault("extraction.model_name", "gemini-2.0-flash")
	v.SetDefault("extraction.upload_dir", "uploads")
	v.SetDefault("extraction.timeout_seconds", 120)
	v.SetDefault("extraction.worker_count", 2)
	v.SetDefault("extraction.queue_size", 100)
	v.SetDefault("extraction.max_processing_age_seconds", 1800)
	v.SetDefault("extraction.stuck_check_interval_seconds", 300)
}
