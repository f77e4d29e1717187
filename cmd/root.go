package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	logger  *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "signpost",
	Short: "Signpost - deterministic clinical signposting engine",
	Long: `Signpost is a deterministic, rule-based signposting engine for GP
surgeries. It evaluates a structured patient context against a fixed,
clinician-authored pathway (male lower urinary tract symptoms, NICE CG97)
and produces a recommendation with an auditable rationale.

The engine is pure: identical inputs always produce identical outputs, and
no recommendation logic depends on configuration. Per-tenant configuration
can only narrow drug choices and name preferred options, never change the
pathway.

Examples:
  # Evaluate a patient context file
  signpost evaluate -f patient.yaml

  # Evaluate for a specific surgery with JSON output
  signpost evaluate -f patient.yaml --tenant riverside-practice -o json

  # Run the bundled sign-off scenarios
  signpost scenarios run

  # Serve the evaluation API
  signpost serve --port 8080`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initializeLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			initializeLogger()
		}
		logger.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.signpost/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().String("output-file", "", "output file path")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("tenant-dir", "", "directory holding per-tenant configuration files")

	// Bind flags to viper
	bindFlags := []struct {
		name string
		flag string
	}{
		{"verbose", "verbose"},
		{"log-level", "log-level"},
		{"log-format", "log-format"},
		{"output", "output"},
		{"output-file", "output-file"},
		{"no-color", "no-color"},
		{"tenant-dir", "tenant-dir"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.name, rootCmd.PersistentFlags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", bf.name, err))
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in ~/.signpost with name "config" (without extension).
		viper.AddConfigPath(home + "/.signpost")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Environment variables
	viper.SetEnvPrefix("SIGNPOST")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initializeLogger sets up the logger based on configuration
func initializeLogger() {
	levelStr := viper.GetString("log-level")
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if viper.GetString("log-format") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// GetLogger returns the configured logger instance
func GetLogger() *slog.Logger {
	if logger == nil {
		initializeLogger()
	}
	return logger
}
