// Package redact removes sensitive information from error strings before
// they are logged. The service handles database connection URLs, a Gemini
// API key, and local upload paths; none of these belong in log output.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

var (
	// Database connection strings with embedded credentials.
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|redis|mongodb)://[^@\s]+@`)

	// API keys and secrets in key=value or key: value form.
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|password)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// Local filesystem paths (upload spool, config files).
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	// host:port endpoints.
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	patternPlaceholders = []struct {
		re          *regexp.Regexp
		placeholder string
	}{
		{dbConnRegex, RedactedCredentialPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
		{unixPathRegex, RedactedPathPlaceholder},
		{hostPortRegex, RedactedHostPlaceholder},
	}
)

// String returns s with all recognized sensitive fragments replaced by
// placeholders.
func String(s string) string {
	for _, p := range patternPlaceholders {
		s = p.re.ReplaceAllString(s, p.placeholder)
	}
	return s
}

// Error returns the redacted message of err, or "" when err is nil.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
