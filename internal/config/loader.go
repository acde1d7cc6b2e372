package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads configuration from environment variables, fills in tag
// defaults and validates the result.
func Load() (*Config, error) {
	return LoadWith(nil)
}

// LoadWith is Load with a hook that adjusts the configuration after the
// environment is read and before it is validated. The CLI uses it to apply
// command-line flags.
func LoadWith(apply func(*Config)) (*Config, error) {
	cfg := &Config{}

	if err := populate(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// populate walks the exported fields of a config struct, descending into
// nested groups, and assigns every field that carries an env tag.
func populate(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := populate(fv); err != nil {
				return err
			}
			continue
		}

		name, raw, err := lookup(sf.Tag)
		if err != nil {
			return err
		}
		if raw == "" {
			continue
		}
		if err := assign(fv, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, raw, err)
		}
	}
	return nil
}

// lookup resolves a field's raw value: the env var, then its envAlt, then
// the default tag. Fields without an env tag resolve to "".
func lookup(tag reflect.StructTag) (name, raw string, err error) {
	name = tag.Get("env")
	if name == "" {
		return "", "", nil
	}

	raw = os.Getenv(name)
	if raw == "" {
		if alt := tag.Get("envAlt"); alt != "" {
			raw = os.Getenv(alt)
		}
	}
	if raw != "" {
		return name, raw, nil
	}

	if tag.Get("required") == "true" {
		return name, "", fmt.Errorf("required environment variable %s is not set", name)
	}
	return name, tag.Get("default"), nil
}

// assign parses raw into the field according to its type.
func assign(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", fv.Type().Elem().Kind())
		}
		fv.Set(reflect.ValueOf(splitList(raw)))
	default:
		return fmt.Errorf("unsupported field type: %s", fv.Kind())
	}
	return nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks every setting and reports all failures at once.
func (c *Config) Validate() error {
	var errs []string
	errs = append(errs, c.Data.problems()...)
	errs = append(errs, c.Server.problems()...)
	errs = append(errs, c.Session.problems()...)
	errs = append(errs, c.Rate.problems()...)

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Sprintf("METRICS_PATH (%q) must start with /", c.Metrics.Path))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *DataConfig) problems() []string {
	var errs []string
	switch kind := c.SourceKind(); kind {
	case SourcePostgres:
		if c.URL == "" {
			errs = append(errs, "DATABASE_URL is required when DATA_SOURCE is postgres")
		}
	case SourceS3:
		keyKind := KindForPath(c.S3.Key)
		switch {
		case c.S3.Endpoint == "" || c.S3.Bucket == "" || c.S3.Key == "":
			errs = append(errs, "DATA_S3_ENDPOINT, DATA_S3_BUCKET and DATA_S3_KEY are required when DATA_SOURCE is s3")
		case keyKind == "" || keyKind == SourceSQLite:
			errs = append(errs, fmt.Sprintf("DATA_S3_KEY (%q) must end in .csv, .json, .yaml, .yml or .xlsx", c.S3.Key))
		}
	case SourceSQLite, SourceCSV, SourceJSON, SourceYAML, SourceXLSX:
		if c.Path == "" {
			errs = append(errs, fmt.Sprintf("DATA_PATH is required when DATA_SOURCE is %s", kind))
		}
	case "":
		errs = append(errs, fmt.Sprintf("DATA_SOURCE is empty and cannot be inferred from DATA_PATH (%q)", c.Path))
	default:
		errs = append(errs, fmt.Sprintf("DATA_SOURCE (%q) must be one of: sqlite, postgres, csv, json, yaml, xlsx, s3", c.Source))
	}
	if c.LoadTimeout <= 0 {
		errs = append(errs, "DATA_LOAD_TIMEOUT must be positive")
	}
	return errs
}

func (c *ServerConfig) problems() []string {
	var errs []string
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Port))
	}
	if c.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}
	return errs
}

func (c *SessionConfig) problems() []string {
	var errs []string
	if c.CookieName == "" {
		errs = append(errs, "SESSION_COOKIE_NAME must not be empty")
	}
	if c.TTL <= 0 {
		errs = append(errs, "SESSION_TTL must be positive")
	}
	if c.MaxSessions <= 0 {
		errs = append(errs, "SESSION_MAX must be positive")
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, "SESSION_SWEEP_INTERVAL must be positive")
	}
	return errs
}

func (c *RateLimitConfig) problems() []string {
	if !c.Enabled {
		return nil
	}
	var errs []string
	if c.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Burst <= 0 {
		errs = append(errs, "RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	return errs
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs and S3 secrets are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Data: {Source: %q, Path: %q, URL: [MASKED], Table: %q, S3: {Bucket: %q, Key: %q, Secret: [MASKED]}}, ",
		c.Data.SourceKind(), c.Data.Path, c.Data.Table, c.Data.S3.Bucket, c.Data.S3.Key))
	b.WriteString(fmt.Sprintf("Session: {TTL: %s, MaxSessions: %d}, ", c.Session.TTL, c.Session.MaxSessions))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d, Burst: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute, c.Rate.Burst))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
