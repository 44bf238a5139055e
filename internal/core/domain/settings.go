package domain

import "time"

// Default settings values.
const (
	// DefaultServerURL is the local backend address.
	DefaultServerURL = "http://localhost:8000"

	// DefaultRequestTimeout bounds non-streaming requests. The chat
	// stream itself is never timed out client-side.
	DefaultRequestTimeout = 120 * time.Second
)

// Settings holds user configuration for the client.
type Settings struct {
	// ServerURL is the base URL of the Q&A backend.
	ServerURL string `toml:"server_url"`

	// RequestTimeoutSeconds bounds uploads and listings. Zero means
	// DefaultRequestTimeout.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`

	// WatchDir is the default directory for upload watch mode.
	WatchDir string `toml:"watch_dir"`

	// Verbose enables debug logging without the --verbose flag.
	Verbose bool `toml:"verbose"`
}

// DefaultSettings returns settings with all defaults applied.
func DefaultSettings() Settings {
	return Settings{
		ServerURL:             DefaultServerURL,
		RequestTimeoutSeconds: int(DefaultRequestTimeout / time.Second),
	}
}

// RequestTimeout returns the configured timeout as a duration,
// falling back to the default when unset or invalid.
func (s Settings) RequestTimeout() time.Duration {
	if s.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}
