package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(EnvUpstreamURL, "http://upstream.local:8080")
	t.Setenv(EnvAPIKey, "secret-key")
	for _, k := range []string{EnvBindAddr, EnvRequestTimeout, EnvMaxRequestSize, EnvCORSOrigins, EnvLogLevel, EnvLogLevelLegacy, EnvLogFormat} {
		t.Setenv(k, "")
	}
}

func unsetenv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	is := is.New(t)
	setRequired(t)

	cfg, err := LoadConfig()
	is.NoErr(err)
	is.Equal(cfg.Server.BindAddr, DefaultBindAddr)
	is.Equal(cfg.Upstream.RequestTimeout, 30*time.Second)
	is.Equal(cfg.Server.MaxRequestSize, int64(2097152))
	is.Equal(cfg.CORS.AllowedOrigins, []string{"http://127.0.0.1:3001", "http://localhost:3001"})
	is.Equal(cfg.Log.Level, "info")
	is.Equal(cfg.Log.Format, "text")
	is.NoErr(cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	is := is.New(t)
	setRequired(t)
	t.Setenv(EnvBindAddr, "0.0.0.0:9000")
	t.Setenv(EnvRequestTimeout, "12")
	t.Setenv(EnvMaxRequestSize, "1024")
	t.Setenv(EnvCORSOrigins, " https://a.example , *,")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, err := LoadConfig()
	is.NoErr(err)
	is.Equal(cfg.Server.BindAddr, "0.0.0.0:9000")
	is.Equal(cfg.Upstream.RequestTimeout, 12*time.Second)
	is.Equal(cfg.Server.WriteTimeout, 17*time.Second)
	is.Equal(cfg.Server.MaxRequestSize, int64(1024))
	is.Equal(cfg.CORS.AllowedOrigins, []string{"https://a.example", "*"})
	is.True(cfg.CORS.AllowsAnyOrigin())
	is.Equal(cfg.Log.Level, "debug")
}

func TestLoadConfig_LegacyLogLevel(t *testing.T) {
	is := is.New(t)
	setRequired(t)
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogLevelLegacy, "warn")

	cfg, err := LoadConfig()
	is.NoErr(err)
	is.Equal(cfg.Log.Level, "warn")
}

func TestLoad_LogFilters(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantLevel string
		wantWarn  bool
	}{
		{name: "trace", key: EnvLogLevelLegacy, value: "trace", wantLevel: "debug"},
		{name: "module filter only", key: EnvLogLevelLegacy, value: "ghost_gateway=debug,tower_http=info", wantLevel: "info", wantWarn: true},
		{name: "filter with default", key: EnvLogLevelLegacy, value: "ghost_gateway=debug, WARN", wantLevel: "warn"},
		{name: "unknown word", key: EnvLogLevel, value: "verbose", wantLevel: "info", wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			is.NoErr(err)
			is.Equal(cfg.Log.Level, tt.wantLevel)
			is.Equal(len(cfg.Warnings) == 1, tt.wantWarn)
			if tt.wantWarn {
				is.True(strings.Contains(cfg.Warnings[0], tt.key))
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"debug", "debug", true},
		{"TRACE", "debug", true},
		{"warning", "warn", true},
		{" error ", "error", true},
		{"info,hyper=off", "info", true},
		{"ghost_gateway=trace", "info", false},
		{"", "info", false},
		{"loud", "info", false},
	}

	for _, tt := range tests {
		is := is.New(t)
		got, ok := ParseLogLevel(tt.in)
		is.Equal(got, tt.want)
		is.Equal(ok, tt.ok)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]string
		missing string
	}{
		{
			name:    "missing url",
			set:     map[string]string{EnvAPIKey: "k"},
			missing: EnvUpstreamURL,
		},
		{
			name:    "missing key",
			set:     map[string]string{EnvUpstreamURL: "http://x"},
			missing: EnvAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			// t.Setenv registers cleanup that restores the prior value;
			// unset afterwards so LookupEnv sees the variable as absent.
			t.Setenv(tt.missing, "")
			unsetenv(t, tt.missing)
			for k, v := range tt.set {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			is.True(err != nil)
			is.True(strings.Contains(err.Error(), tt.missing))
		})
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	is := is.New(t)
	setRequired(t)
	t.Setenv(EnvRequestTimeout, "thirty")
	t.Setenv(EnvMaxRequestSize, "-5")
	t.Setenv(EnvLogFormat, "xml")
	t.Setenv(EnvBindAddr, ":8085")

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.Upstream.RequestTimeout, DefaultRequestTimeout)
	is.Equal(cfg.Server.MaxRequestSize, int64(DefaultMaxRequestSize))
	is.Equal(cfg.Log.Format, DefaultLogFormat)
	is.Equal(cfg.Server.BindAddr, ":8085")
	is.Equal(len(cfg.Warnings), 3)
	is.True(strings.Contains(cfg.Warnings[0], EnvRequestTimeout))
	is.True(strings.Contains(cfg.Warnings[1], EnvMaxRequestSize))
	is.True(strings.Contains(cfg.Warnings[2], EnvLogFormat))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{BindAddr: "127.0.0.1:8085", MaxRequestSize: 10},
			Upstream: UpstreamConfig{
				BaseURL:        "https://api.example.com",
				APIKey:         "k",
				RequestTimeout: time.Second,
			},
			Log: LogConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid https", mutate: func(*Config) {}},
		{name: "valid http", mutate: func(c *Config) { c.Upstream.BaseURL = "http://127.0.0.1:8080" }},
		{name: "empty key", mutate: func(c *Config) { c.Upstream.APIKey = "" }, wantErr: true},
		{name: "ftp scheme", mutate: func(c *Config) { c.Upstream.BaseURL = "ftp://x" }, wantErr: true},
		{name: "bare http prefix", mutate: func(c *Config) { c.Upstream.BaseURL = "httpx" }, wantErr: true},
		{name: "empty url", mutate: func(c *Config) { c.Upstream.BaseURL = "" }, wantErr: true},
		{name: "log level not checked", mutate: func(c *Config) { c.Log.Level = "trace" }},
		{name: "bind address not checked", mutate: func(c *Config) { c.Server.BindAddr = ":8085" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			is.Equal(err != nil, tt.wantErr)
		})
	}
}
