// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// Data source kinds.
const (
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceCSV      = "csv"
	SourceJSON     = "json"
	SourceYAML     = "yaml"
	SourceXLSX     = "xlsx"
	SourceS3       = "s3"
)

// DataConfig describes where the program table is loaded from.
type DataConfig struct {
	// Source is one of sqlite, postgres, csv, json, yaml, xlsx, s3.
	// Empty infers the kind from Path's extension.
	Source string `env:"DATA_SOURCE"`

	// Path is the dataset file for file-based sources (default: universities_sampled.db)
	Path string `env:"DATA_PATH" default:"universities_sampled.db"`

	// URL is the PostgreSQL connection string for the postgres source.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Table is the table to read for database sources (default: universities)
	Table string `env:"DATA_TABLE" default:"universities"`

	// Sheet is the worksheet for xlsx sources (default: first sheet)
	Sheet string `env:"DATA_SHEET"`

	// LoadTimeout bounds the one-time dataset load at startup (default: 30s)
	LoadTimeout time.Duration `env:"DATA_LOAD_TIMEOUT" default:"30s"`

	S3 S3Config
}

// S3Config holds settings for loading the dataset from an S3-compatible bucket.
type S3Config struct {
	Endpoint  string `env:"DATA_S3_ENDPOINT"`
	Bucket    string `env:"DATA_S3_BUCKET"`
	Key       string `env:"DATA_S3_KEY"`
	AccessKey string `env:"DATA_S3_ACCESS_KEY"`
	SecretKey string `env:"DATA_S3_SECRET_KEY"`
	Region    string `env:"DATA_S3_REGION"`

	// UseSSL controls https for the endpoint (default: true)
	UseSSL bool `env:"DATA_S3_USE_SSL" default:"true"`
}

// SessionConfig holds per-visitor search session settings.
type SessionConfig struct {
	// CookieName is the name of the session cookie (default: unisearch_session)
	CookieName string `env:"SESSION_COOKIE_NAME" default:"unisearch_session"`

	// TTL is the idle time before a session expires (default: 30m)
	TTL time.Duration `env:"SESSION_TTL" default:"30m"`

	// MaxSessions caps live sessions; the oldest is evicted when full (default: 10000)
	MaxSessions int `env:"SESSION_MAX" default:"10000"`

	// SweepInterval is how often expired sessions are removed (default: 1m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"1m"`

	// SecureCookie sets the Secure flag on the session cookie (default: false)
	SecureCookie bool `env:"SESSION_SECURE_COOKIE" default:"false"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the sustained rate per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// Burst is the number of requests allowed above the sustained rate (default: 30)
	Burst int `env:"RATE_LIMIT_BURST" default:"30"`
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

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`

	// Path is the metrics endpoint path (default: /metrics)
	Path string `env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// SourceKind returns the configured source kind, inferring it from the
// dataset path's extension when DATA_SOURCE is empty.
func (c *DataConfig) SourceKind() string {
	if c.Source != "" {
		return strings.ToLower(c.Source)
	}
	return KindForPath(c.Path)
}

// KindForPath maps a file name to a source kind by extension.
// Unknown extensions return "".
func KindForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return SourceSQLite
	case ".csv":
		return SourceCSV
	case ".json":
		return SourceJSON
	case ".yaml", ".yml":
		return SourceYAML
	case ".xlsx":
		return SourceXLSX
	default:
		return ""
	}
}
