package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/marketing_analytics/internal/app"
	"github.com/AngelCh415/marketing_analytics/internal/config"
	"github.com/AngelCh415/marketing_analytics/internal/metrics"
)

//nolint:gochecknoglobals // Global vars needed for cobra CLI
var (
	cfgFile   string
	dataPath  string
	logLevel  string
	from      string
	to        string
	platforms string
)

// rootCmd represents the base command
//
//nolint:gochecknoglobals // Cobra commands are typically global
var rootCmd = &cobra.Command{
	Use:   "mktdash",
	Short: "Marketing performance analytics over a daily spend and revenue table",
	Long: `mktdash loads a daily marketing dataset, cleans it and computes KPIs,
platform breakdowns, attribution models, cohorts and seasonality.

Configuration comes from MKT_* environment variables and an optional YAML
file; --data and --log-level override both.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "data file path or http(s) URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// addFilterFlags registers the dashboard filter flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&from, "from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&platforms, "platforms", "", "comma separated platforms (facebook,google,tiktok)")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newApp builds the application with logs on stderr so stdout stays clean
// for report output.
func newApp() (*app.Application, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return app.New(cfg, logger), nil
}

func filterQuery() (metrics.Query, error) {
	v := url.Values{}
	v.Set("from", from)
	v.Set("to", to)
	v.Set("platforms", platforms)
	v.Set("limit", "0")
	return metrics.ParseQuery(v)
}
