package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/suar-net/ghost-gateway/internal/config"
	"github.com/suar-net/ghost-gateway/internal/dashboard"
	"github.com/suar-net/ghost-gateway/internal/logging"
)

const (
	envMode       = "DASHBOARD_MODE"
	envGatewayURL = "GHOST_GATEWAY_URL"

	defaultGatewayURL = "http://127.0.0.1:8085"
	defaultAPIURL     = "http://127.0.0.1:8080"
)

var (
	mode       string
	gatewayURL string
	apiURL     string
	apiKey     string
	timeout    time.Duration
	verbose    bool
	jsonLogs   bool

	client *dashboard.Client
)

var rootCmd = &cobra.Command{
	Use:   "ghost-dashboard",
	Short: "Terminal dashboard for the inBestia API",
	Long: `ghost-dashboard shows the state of the inBestia financial-data API.

It runs in one of two modes:
  - gateway: talk to the Ghost gateway, which holds the API key
  - direct:  talk to the inBestia API, sending the API key itself`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		format := "text"
		if jsonLogs {
			format = "json"
		}
		logger, err := logging.New(config.LogConfig{Level: level, Format: format}, os.Stderr)
		if err != nil {
			return err
		}

		m, err := dashboard.ParseMode(mode)
		if err != nil {
			return err
		}

		client, err = dashboard.New(dashboard.Options{
			Mode:       m,
			GatewayURL: gatewayURL,
			APIURL:     apiURL,
			APIKey:     apiKey,
			Timeout:    timeout,
			Logger:     logger,
		})
		return err
	},
}

func init() {
	// Flag defaults come from the environment, so .env must be read first.
	_ = godotenv.Load()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&mode, "mode", envOr(envMode, string(dashboard.ModeGateway)), "Data source: gateway or direct")
	flags.StringVar(&gatewayURL, "gateway-url", envOr(envGatewayURL, defaultGatewayURL), "Ghost gateway base URL (gateway mode)")
	flags.StringVar(&apiURL, "api-url", envOr(config.EnvUpstreamURL, defaultAPIURL), "inBestia API base URL (direct mode)")
	flags.StringVar(&apiKey, "api-key", os.Getenv(config.EnvAPIKey), "inBestia API key (direct mode)")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "Per-request timeout")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&jsonLogs, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
