package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/danrwr-web/signposting-sub009/internal"
	"github.com/danrwr-web/signposting-sub009/pkg/config"
	"github.com/danrwr-web/signposting-sub009/pkg/validation"
)

// tenantsCmd represents the tenants command
var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "Tenant configuration management commands",
	Long: `Tenant configuration management commands.

Each GP surgery (tenant) has a small configuration file naming its preferred
drug options per class plus any local exclusions and cautions. Tenant
configuration can never change the pathway itself.

Examples:
  # Show the effective configuration for a tenant
  signpost tenants show riverside-practice

  # Validate a tenant configuration file
  signpost tenants validate ./riverside.yaml

  # Write a starter tenant file into the tenant directory
  signpost tenants init riverside-practice`,
}

// tenantsShowCmd shows the effective configuration for a tenant
var tenantsShowCmd = &cobra.Command{
	Use:   "show [tenant-id]",
	Short: "Show the effective configuration for a tenant",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTenantsShow,
}

// tenantsValidateCmd validates a tenant configuration file
var tenantsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a tenant configuration file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantsValidate,
}

// tenantsInitCmd writes a starter tenant configuration file
var tenantsInitCmd = &cobra.Command{
	Use:   "init <tenant-id>",
	Short: "Write a starter tenant configuration file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantsInit,
}

func init() {
	rootCmd.AddCommand(tenantsCmd)
	tenantsCmd.AddCommand(tenantsShowCmd)
	tenantsCmd.AddCommand(tenantsValidateCmd)
	tenantsCmd.AddCommand(tenantsInitCmd)

	tenantsInitCmd.Flags().Bool("force", false, "overwrite an existing tenant file")
}

func runTenantsShow(cmd *cobra.Command, args []string) error {
	tenantID := ""
	if len(args) == 1 {
		tenantID = args[0]
	}

	cfg, err := resolveTenantConfig(cmd.Context(), tenantID, "")
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render tenant configuration: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runTenantsValidate(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	cfg, err := config.LoadTenantFile(args[0])
	if err != nil {
		return err
	}

	if result := validation.ValidateTenantID(cfg.Tenant); !result.Valid {
		return fmt.Errorf("invalid tenant id %q", cfg.Tenant)
	}

	log.Info("Tenant configuration is valid",
		"tenant", cfg.Tenant,
		"version", cfg.Version,
		"exclusions", len(cfg.Exclude),
		"cautions", len(cfg.Cautions))
	return nil
}

func runTenantsInit(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	tenantID := args[0]
	force, _ := cmd.Flags().GetBool("force")

	if result := validation.ValidateTenantID(tenantID); !result.Valid || tenantID == "" {
		return fmt.Errorf("invalid tenant id %q", tenantID)
	}

	dir := viper.GetString("tenant-dir")
	if dir == "" {
		appCfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		dir = appCfg.TenantStore.Dir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create tenant directory: %w", err)
	}

	path := filepath.Join(dir, tenantID+".yaml")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("tenant file already exists: %s (use --force to overwrite)", path)
	}

	// Seed from the embedded default so new tenants start from the
	// reviewed baseline.
	data, err := internal.ReadDefaultTenant()
	if err != nil {
		return fmt.Errorf("failed to read default tenant configuration: %w", err)
	}

	cfg, err := config.ParseTenantConfig(data)
	if err != nil {
		return fmt.Errorf("failed to parse default tenant configuration: %w", err)
	}
	cfg.Tenant = tenantID

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render tenant configuration: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write tenant file: %w", err)
	}

	log.Info("Created tenant configuration", "tenant", tenantID, "path", path)
	return nil
}
