package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/echotools/kocsv/internal/benchlog"
	"github.com/echotools/kocsv/internal/config"
	"github.com/echotools/kocsv/internal/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func runReport(cmd *cobra.Command, args []string) error {
	// Override config with command flags
	if viper.IsSet("output") {
		cfg.Report.Output = viper.GetString("output")
	}
	if viper.IsSet("metrics-file") {
		cfg.Report.MetricsFile = viper.GetString("metrics-file")
	}

	if err := cfg.ValidateReportConfig(); err != nil {
		return err
	}

	return generateReport(logger, cfg.Report, args, cmd.OutOrStdout())
}

// generateReport parses paths in order and writes the CSV report. Nothing
// is written unless every file parsed and every row is complete.
func generateReport(logger *zap.Logger, rc config.ReportConfig, paths []string, stdout io.Writer) error {
	startTime := time.Now()

	driver := benchlog.NewDriver(logger, benchlog.NewRegistry())
	if err := driver.ProcessFiles(paths); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := benchlog.WriteReport(&buf, driver.Registry()); err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if rc.WritesToStdout() {
		if _, err := buf.WriteTo(stdout); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else if err := writeFileAll(rc.Output, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", rc.Output, err)
	}

	stats := driver.Stats()
	rows := driver.Registry().Len()

	// The report is already out; a metrics failure must not fail the run.
	if rc.MetricsFile != "" {
		if err := writeMetrics(rc.MetricsFile, stats, rows); err != nil {
			logger.Warn("Failed to write metrics", zap.String("metrics_file", rc.MetricsFile), zap.Error(err))
		}
	}

	logger.Info("Report generated",
		zap.Int("files", stats.Files),
		zap.Int("blocks", stats.Blocks),
		zap.Int("rows", rows),
		zap.Int("overwritten", stats.Overwritten),
		zap.Int("ignored_lines", stats.Ignored),
		zap.Duration("duration", time.Since(startTime)))
	return nil
}

func writeMetrics(path string, stats benchlog.Stats, rows int) error {
	m := metrics.New("")
	m.FilesProcessed.Add(float64(stats.Files))
	m.BlocksParsed.Add(float64(stats.Blocks))
	m.LinesIgnored.Add(float64(stats.Ignored))
	m.ExperimentsOverwritten.Add(float64(stats.Overwritten))
	m.ReportRows.Set(float64(rows))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return m.WriteToTextfile(path)
}

// writeFileAll writes data to path, creating its parent directories.
func writeFileAll(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
