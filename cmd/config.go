package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danrwr-web/signposting-sub009/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Application configuration management commands",
	Long: `Application configuration management commands.

This covers the application configuration only (logging, server, tenant
store, audit, output defaults). Per-tenant clinical configuration is
managed with 'signpost tenants'.

Examples:
  # Write a default configuration file to ~/.signpost/config.yaml
  signpost config init

  # Show the effective configuration
  signpost config show`,
}

// configInitCmd writes a default configuration file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

// configShowCmd shows the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().Bool("force", false, "overwrite an existing configuration file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	force, _ := cmd.Flags().GetBool("force")

	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	if err := config.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create application directories: %w", err)
	}

	if err := config.SaveConfig(config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	log.Info("Created configuration file", "path", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
