// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Session  SessionConfig
	Cache    CacheConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 120s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"120s"`
}

// UploadConfig holds batch ingestion settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed size of one file in bytes (default: 50MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"52428800"`

	// MaxFilesPerCategory caps the files accepted for CKH and for KKH (default: 20)
	MaxFilesPerCategory int `env:"UPLOAD_MAX_FILES_PER_CATEGORY" default:"20"`

	// MaxConcurrent is the maximum number of batches processed at once (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a batch waits for a processing slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// MaxRequestSize is the largest multipart body a full batch can produce.
func (c *UploadConfig) MaxRequestSize() int64 {
	// two categories, plus 1MB of multipart framing
	return c.MaxFileSize*int64(c.MaxFilesPerCategory)*2 + 1<<20
}

// SessionConfig holds settings for in-memory batch sessions.
type SessionConfig struct {
	// TTL is how long an idle batch stays available for filtering and export (default: 30m)
	TTL time.Duration `env:"SESSION_TTL" default:"30m"`

	// SweepInterval is how often expired sessions are removed (default: 1m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"1m"`

	// MaxSessions bounds concurrently held batches; the least recently used is evicted (default: 100)
	MaxSessions int `env:"SESSION_MAX" default:"100"`
}

// CacheConfig holds parsed-file cache settings.
type CacheConfig struct {
	// MaxEntries is the number of parsed files kept in memory (default: 256, 0 disables)
	MaxEntries int `env:"CACHE_MAX_ENTRIES" default:"256"`

	// Disabled turns off the parsed-file cache (default: false)
	Disabled bool `env:"CACHE_DISABLED" default:"false"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// UploadLimit is requests per minute for the batch upload endpoint (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
