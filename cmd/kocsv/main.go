package main

import (
	"fmt"
	"os"

	"github.com/echotools/kocsv/internal/config"
	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	version    = "dev"
	cfg        *config.Config
	logger     *zap.Logger
	configFile string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "kocsv [flags] <log-file>...",
		Short:   "Summarize ko benchmark logs as CSV",
		Version: version,
		Long: `kocsv reads the console logs of ko benchmark runs and prints one CSV
row per distinct (m, n, k) parameter set with the measured total time,
time per multiplication, time per round and operations per second.

Logs may be plain text, gzip or zstd compressed. Use - to read standard input.
When the same parameters appear more than once, the last block read wins.`,
		Example: `  # Summarize all runs
  kocsv logs/*.log > results.csv

  # Read compressed logs and export run counters
  kocsv --metrics-file /var/lib/node_exporter/kocsv.prom runs/*.log.zst

  # Write the report to a file with debug logging
  kocsv -d -o out/results.csv run1.log run2.log`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Override config with global flags
			if viper.IsSet("debug") {
				cfg.Debug = viper.GetBool("debug")
			}
			if viper.IsSet("log-level") {
				cfg.LogLevel = viper.GetString("log-level")
			}
			if viper.IsSet("log-file") {
				cfg.LogFile = viper.GetString("log-file")
			}

			logger, err = cfg.NewLogger()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			runID, err := uuid.NewV4()
			if err != nil {
				return fmt.Errorf("failed to generate run id: %w", err)
			}
			logger = logger.With(zap.String("run_id", runID.String()))

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runReport,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "log file path (logs always go to stderr)")

	// Report flags
	rootCmd.Flags().StringP("output", "o", "", "write the CSV report to this file instead of stdout")
	rootCmd.Flags().String("metrics-file", "", "write run counters to this Prometheus textfile")

	// Bind flags to viper
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("metrics-file", rootCmd.Flags().Lookup("metrics-file"))

	return rootCmd
}
