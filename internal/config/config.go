package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/suar-net/ghost-gateway/internal/validation"
)

const (
	EnvUpstreamURL    = "INBESTIA_API_URL"
	EnvAPIKey         = "INBESTIA_API_KEY"
	EnvBindAddr       = "BIND_ADDR"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvCORSOrigins    = "CORS_ALLOWED_ORIGINS"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogLevelLegacy = "RUST_LOG"
	EnvLogFormat      = "LOG_FORMAT"

	DefaultBindAddr       = "127.0.0.1:8085"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 2 * 1024 * 1024 // 2 MiB
	DefaultCORSOrigins    = "http://127.0.0.1:3001,http://localhost:3001"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	CORS     CORSConfig
	Log      LogConfig

	// Warnings lists settings that were not understood and replaced by their
	// defaults. They are logged once the logger exists.
	Warnings []string
}

type ServerConfig struct {
	BindAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
}

type UpstreamConfig struct {
	BaseURL        string `validate:"httpurl"`
	APIKey         string `validate:"required"`
	RequestTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds an already normalized level (debug, info, warn or error)
// and format (text or json).
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig reads the gateway settings from the process environment.
// A missing upstream URL or API key fails here, before Validate is reached.
// Every other setting falls back to its default when absent or unusable.
func LoadConfig() (*Config, error) {
	baseURL, ok := os.LookupEnv(EnvUpstreamURL)
	if !ok {
		return nil, fmt.Errorf("%s environment variable is required", EnvUpstreamURL)
	}
	apiKey, ok := os.LookupEnv(EnvAPIKey)
	if !ok {
		return nil, fmt.Errorf("%s environment variable is required", EnvAPIKey)
	}

	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	timeoutSecs, err := envInt(EnvRequestTimeout, int64(DefaultRequestTimeout/time.Second))
	if err != nil {
		warn("%v, using default %s", err, DefaultRequestTimeout)
	}
	maxSize, err := envInt(EnvMaxRequestSize, DefaultMaxRequestSize)
	if err != nil {
		warn("%v, using default %d", err, int64(DefaultMaxRequestSize))
	}

	requestTimeout := time.Duration(timeoutSecs) * time.Second

	serverConfig := ServerConfig{
		BindAddr:       envOr(EnvBindAddr, DefaultBindAddr),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   requestTimeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxRequestSize: maxSize,
	}

	levelKey := EnvLogLevel
	rawLevel := os.Getenv(EnvLogLevel)
	if rawLevel == "" {
		levelKey = EnvLogLevelLegacy
		rawLevel = envOr(EnvLogLevelLegacy, DefaultLogLevel)
	}
	level, ok := ParseLogLevel(rawLevel)
	if !ok {
		warn("unrecognized %s %q, using %s", levelKey, rawLevel, level)
	}

	format := strings.ToLower(strings.TrimSpace(envOr(EnvLogFormat, DefaultLogFormat)))
	if format != "text" && format != "json" {
		warn("unrecognized %s %q, using %s", EnvLogFormat, format, DefaultLogFormat)
		format = DefaultLogFormat
	}

	return &Config{
		Server: serverConfig,
		Upstream: UpstreamConfig{
			BaseURL:        baseURL,
			APIKey:         apiKey,
			RequestTimeout: requestTimeout,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(envOr(EnvCORSOrigins, DefaultCORSOrigins)),
		},
		Log: LogConfig{
			Level:  level,
			Format: format,
		},
		Warnings: warnings,
	}, nil
}

// Validate rejects an empty API key and an upstream URL without an http(s)
// scheme. Nothing else can fail startup.
func (c *Config) Validate() error {
	if err := validation.Struct(c.Upstream); err != nil {
		return fmt.Errorf("invalid upstream config: %w", err)
	}
	return nil
}

// ParseLogLevel reduces a LOG_LEVEL or RUST_LOG value to one of debug, info,
// warn or error. Filter strings such as "warn,ghost_gateway=debug" yield
// their bare default directive; trace maps to debug. When nothing usable is
// found it returns info and false.
func ParseLogLevel(raw string) (string, bool) {
	for _, directive := range strings.Split(raw, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" || strings.Contains(directive, "=") {
			continue
		}
		if level, ok := plainLevel(directive); ok {
			return level, true
		}
	}
	return DefaultLogLevel, false
}

func plainLevel(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "trace", "debug":
		return "debug", true
	case "info":
		return "info", true
	case "warn", "warning":
		return "warn", true
	case "error":
		return "error", true
	}
	return "", false
}

// Load is LoadConfig followed by Validate.
func Load() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AllowsAnyOrigin reports whether the origin list contains the "*" wildcard.
func (c CORSConfig) AllowsAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q", key, v)
	}
	if n <= 0 {
		return fallback, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
