package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/soportebi/faro/internal/logging"
	"github.com/soportebi/faro/pkg/faro/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "faro",
	Short: "Batch KPI and cause analysis for customer-service data",
	Long: "Faro ingests ticket, call and survey exports, simplifies free-text\n" +
		"incident causes into a bounded category set, and computes call-center KPIs.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(parseLevel(flagLogLevel), flagLogFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML configuration")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(kpisCmd)
	rootCmd.AddCommand(advisorsCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.Version = version
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig honors --config when given, otherwise the defaults.
func loadConfig() (config.Config, error) {
	if flagConfig == "" {
		return config.Default(), nil
	}
	return config.Load(flagConfig)
}

// emitJSON writes v indented to path, or stdout when path is empty.
func emitJSON(path string, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if path == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
