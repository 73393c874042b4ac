package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/suar-net/ghost-gateway/internal/dashboard"
	"github.com/suar-net/ghost-gateway/internal/model"
	"github.com/suar-net/ghost-gateway/internal/timeframe"
)

var (
	timeframeFlag      string
	includeFundamental bool
	refreshInterval    time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show API health, system metrics and providers side by side",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := client.Snapshot(cmd.Context())
		fmt.Println(dashboard.RenderSnapshot(snap))
		if snap.Failed() {
			return errors.New("dashboard data unavailable")
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live status board that refreshes periodically",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if refreshInterval < time.Second {
			return fmt.Errorf("--interval must be at least 1s, got %s", refreshInterval)
		}
		return dashboard.RunWatch(cmd.Context(), client, refreshInterval)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check API health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := client.CheckHealth(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(dashboard.RenderHealth(h))
		if h.Status != model.StatusHealthy {
			return fmt.Errorf("API is %s", h.Status)
		}
		return nil
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show system metrics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := client.FetchSystemMetrics(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(dashboard.RenderSystemMetrics(m))
		return nil
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show data provider status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := client.FetchProvidersStatus(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(dashboard.RenderProviders(p))
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show API information and endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := client.FetchInfo(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(dashboard.RenderInfo(info))
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <symbol>",
	Short: "Analyze one symbol on one timeframe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tbl, _ := client.FetchTimeframesConfig(ctx)

		api, err := tbl.ToAPIFormat(timeframeFlag)
		if err != nil {
			return err
		}

		res, err := client.Analyze(ctx, model.AnalysisRequest{
			Symbol:             args[0],
			Timeframe:          api,
			IncludeFundamental: includeFundamental,
		})
		if err != nil {
			var nf *dashboard.SymbolNotFoundError
			if errors.As(err, &nf) && len(nf.Suggestions) > 0 {
				fmt.Fprintf(os.Stderr, "Try one of: %s\n", strings.Join(nf.Suggestions, ", "))
			}
			return err
		}
		fmt.Println(dashboard.RenderAnalysis(res))
		return nil
	},
}

var multiCmd = &cobra.Command{
	Use:   "multi <symbol>",
	Short: "Analyze a symbol across timeframes and compute the confluence score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tbl, _ := client.FetchTimeframesConfig(ctx)

		res, err := client.AnalyzeMultiTemporal(ctx, tbl, args[0], includeFundamental)
		if res != nil {
			fmt.Println(dashboard.RenderMultiTemporal(res))
		}
		return err
	},
}

var timeframesCmd = &cobra.Command{
	Use:   "timeframes",
	Short: "List the supported timeframes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, remote := client.FetchTimeframesConfig(cmd.Context())
		fmt.Println(dashboard.RenderTimeframes(tbl, remote))
		return nil
	},
}

var confluenceCmd = &cobra.Command{
	Use:   "confluence <timeframe=score>...",
	Short: "Compute a confluence score offline from per-timeframe scores",
	Long: `Compute the weight-normalised average of per-timeframe scores using the
built-in timeframe table, e.g.

  ghost-dashboard confluence 1d=0.8 1h=0.6`,
	Args: cobra.MinimumNArgs(1),
	// No network access, so no client is needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		scores, err := parseScores(args)
		if err != nil {
			return err
		}
		c, err := timeframe.Default().Confluence(scores)
		if err != nil {
			return err
		}
		fmt.Printf("%.4f\n", c)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&timeframeFlag, "timeframe", "t", "1d", "Timeframe, e.g. 5m, 1h, daily")
	for _, c := range []*cobra.Command{analyzeCmd, multiCmd} {
		c.Flags().BoolVar(&includeFundamental, "fundamental", false, "Include fundamental analysis")
	}

	watchCmd.Flags().DurationVar(&refreshInterval, "interval", 15*time.Second, "Refresh interval")

	rootCmd.AddCommand(statusCmd, watchCmd, healthCmd, metricsCmd, providersCmd, infoCmd,
		analyzeCmd, multiCmd, timeframesCmd, confluenceCmd)
}
