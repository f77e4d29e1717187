package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads the application configuration from the config file
func LoadConfig() (*SignpostConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// If config file doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg SignpostConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in missing fields with defaults
	defaults := DefaultConfig()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Logging.Format
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if cfg.TenantStore.Backend == "" {
		cfg.TenantStore.Backend = defaults.TenantStore.Backend
	}
	if cfg.TenantStore.Dir == "" {
		cfg.TenantStore.Dir = defaults.TenantStore.Dir
	}
	if cfg.TenantStore.CacheTTL == 0 {
		cfg.TenantStore.CacheTTL = defaults.TenantStore.CacheTTL
	}
	if cfg.Audit.Subject == "" {
		cfg.Audit.Subject = defaults.Audit.Subject
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = defaults.Output.Format
	}

	return &cfg, nil
}

// SaveConfig saves the application configuration to the config file
func SaveConfig(cfg *SignpostConfig) error {
	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadTenantFile loads a single tenant configuration from a YAML file
func LoadTenantFile(path string) (*TenantConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tenant file: %w", err)
	}
	return ParseTenantConfig(data)
}

// ParseTenantConfig parses tenant configuration YAML
func ParseTenantConfig(data []byte) (*TenantConfig, error) {
	var tc TenantConfig
	if err := yaml.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("failed to parse tenant config: %w", err)
	}
	if tc.Tenant == "" {
		return nil, fmt.Errorf("tenant config missing tenant id")
	}
	for class := range tc.Preferred {
		if !class.IsDrugClass() {
			return nil, fmt.Errorf("tenant config preferred option for non-drug class %q", class)
		}
	}
	for class := range tc.Exclude {
		if !class.IsDrugClass() {
			return nil, fmt.Errorf("tenant config exclusion for non-drug class %q", class)
		}
	}
	return &tc, nil
}
