package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of environment variables read by LoadConfig.
const EnvPrefix = "KOCSV"

// Config holds all configuration for the application
type Config struct {
	// Global configuration
	Debug      bool   `yaml:"debug" mapstructure:"debug"`
	LogLevel   string `yaml:"log_level" mapstructure:"log_level"`
	LogFile    string `yaml:"log_file" mapstructure:"log_file"`
	ConfigFile string `yaml:"config" mapstructure:"config"`

	// Report configuration
	Report ReportConfig `yaml:"report" mapstructure:"report"`
}

// ReportConfig holds configuration for report generation
type ReportConfig struct {
	// Output is the CSV destination. Empty or "-" means stdout.
	Output string `yaml:"output" mapstructure:"output"`
	// MetricsFile is a Prometheus textfile written after the run. Empty disables it.
	MetricsFile string `yaml:"metrics_file" mapstructure:"metrics_file"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		LogFile:  "",
		Report: ReportConfig{
			Output:      "",
			MetricsFile: "",
		},
	}
}

// LoadConfig loads configuration from file, .env and environment variables.
// Command line flags are applied by the caller.
func LoadConfig(configFile string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := DefaultConfig()

	// Use a local viper instance to avoid conflicts with flag bindings
	v := viper.New()
	v.SetConfigType("yaml")

	// Defaults make every key known to viper so AutomaticEnv can override it
	v.SetDefault("debug", config.Debug)
	v.SetDefault("log_level", config.LogLevel)
	v.SetDefault("log_file", config.LogFile)
	v.SetDefault("report.output", config.Report.Output)
	v.SetDefault("report.metrics_file", config.Report.MetricsFile)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.ConfigFile = configFile

	return config, nil
}

// Level resolves the configured log level. An unknown level falls back to
// debug or info depending on Debug.
func (c *Config) Level() zapcore.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		if c.Debug {
			return zapcore.DebugLevel
		}
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		if c.Debug {
			return zapcore.DebugLevel
		}
		return zapcore.InfoLevel
	}
}

// NewLogger creates a zap logger based on the configuration. Logs go to
// stderr because stdout carries the report.
func (c *Config) NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level.SetLevel(c.Level())

	// Include caller info in log messages (relative path and line number)
	cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	if c.LogFile != "" {
		cfg.OutputPaths = []string{c.LogFile, "stderr"}
		cfg.ErrorOutputPaths = []string{c.LogFile, "stderr"}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	return logger, nil
}

// WritesToStdout reports whether the CSV goes to standard output.
func (r ReportConfig) WritesToStdout() bool {
	return r.Output == "" || r.Output == "-"
}

// ValidateReportConfig validates report configuration. Directories are
// not created here; the report writer creates them once the report is
// complete.
func (c *Config) ValidateReportConfig() error {
	if !c.Report.WritesToStdout() {
		if err := checkNotDir(c.Report.Output); err != nil {
			return fmt.Errorf("invalid output: %w", err)
		}
	}
	if c.Report.MetricsFile != "" {
		if c.Report.MetricsFile == c.Report.Output {
			return fmt.Errorf("metrics file and output must differ: %s", c.Report.MetricsFile)
		}
		if err := checkNotDir(c.Report.MetricsFile); err != nil {
			return fmt.Errorf("invalid metrics file: %w", err)
		}
	}
	return nil
}

func checkNotDir(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
