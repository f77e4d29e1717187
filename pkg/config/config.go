package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" json:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// TenantStoreConfig selects where per-tenant configuration is loaded from.
// Backend is "file" or "postgres".
type TenantStoreConfig struct {
	Backend     string        `yaml:"backend" json:"backend"`
	Dir         string        `yaml:"dir" json:"dir"`
	PostgresDSN string        `yaml:"postgres_dsn" json:"postgres_dsn"`
	CacheTTL    time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

// AuditConfig represents the audit sink configuration. When NATSURL is empty
// the audit sink is disabled and evaluations are not published.
type AuditConfig struct {
	NATSURL string `yaml:"nats_url" json:"nats_url"`
	Subject string `yaml:"subject" json:"subject"`
}

// OutputConfig represents CLI output configuration
type OutputConfig struct {
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
	Pretty bool   `yaml:"pretty" json:"pretty"`
}

// SignpostConfig represents the complete application configuration
type SignpostConfig struct {
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
	Server      ServerConfig      `yaml:"server" json:"server"`
	TenantStore TenantStoreConfig `yaml:"tenant_store" json:"tenant_store"`
	Audit       AuditConfig       `yaml:"audit" json:"audit"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *SignpostConfig {
	homeDir, _ := os.UserHomeDir()
	signpostDir := filepath.Join(homeDir, ".signpost")

	return &SignpostConfig{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		TenantStore: TenantStoreConfig{
			Backend:  "file",
			Dir:      filepath.Join(signpostDir, "tenants"),
			CacheTTL: 5 * time.Minute,
		},
		Audit: AuditConfig{
			Subject: "signpost.audit.evaluations",
		},
		Output: OutputConfig{
			Format: "table",
			Pretty: true,
		},
	}
}

// GetConfigPath returns the path of the application config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".signpost", "config.yaml"), nil
}

// EnsureDirectories creates the application directories if missing
func EnsureDirectories() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	signpostDir := filepath.Join(homeDir, ".signpost")
	for _, dir := range []string{signpostDir, filepath.Join(signpostDir, "tenants")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// TenantConfig is the per-tenant Local Configuration: the preferred option
// within each drug class plus additional exclusions and cautions. It can
// never change rule ordering, classification thresholds, or red-flag
// behaviour; those are fixed in code.
type TenantConfig struct {
	Tenant    string                              `yaml:"tenant" json:"tenant"`
	Version   string                              `yaml:"version" json:"version"`
	Preferred map[models.InterventionClass]string `yaml:"preferred,omitempty" json:"preferred,omitempty"`
	Exclude   map[models.InterventionClass]bool   `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Cautions  map[models.InterventionClass]string `yaml:"cautions,omitempty" json:"cautions,omitempty"`
}

// defaultPreferred holds the built-in formulary fallbacks used when a tenant
// does not override a class, or overrides it with an empty value.
var defaultPreferred = map[models.InterventionClass]string{
	models.ClassAlphaBlocker:       "tamsulosin MR 400 micrograms once daily",
	models.ClassFiveAlphaReductase: "finasteride 5 mg once daily",
	models.ClassAntimuscarinic:     "tolterodine MR 4 mg once daily",
	models.ClassBeta3Agonist:       "mirabegron 50 mg once daily",
}

// DefaultTenantConfig returns the built-in tenant configuration used when no
// tenant override exists.
func DefaultTenantConfig() *TenantConfig {
	preferred := make(map[models.InterventionClass]string, len(defaultPreferred))
	for class, option := range defaultPreferred {
		preferred[class] = option
	}
	return &TenantConfig{
		Tenant:    "default",
		Version:   "builtin",
		Preferred: preferred,
		Exclude:   map[models.InterventionClass]bool{},
		Cautions:  map[models.InterventionClass]string{},
	}
}

// PreferredOption returns the tenant's preferred option for a drug class,
// falling back to the built-in default when the tenant has no usable
// override. A config authoring mistake degrades to the default rather than
// blocking recommendations for the tenant.
func (t *TenantConfig) PreferredOption(class models.InterventionClass) string {
	if !class.IsDrugClass() {
		return ""
	}
	if t != nil && t.Preferred != nil {
		if option, ok := t.Preferred[class]; ok && option != "" {
			return option
		}
	}
	return defaultPreferred[class]
}

// Excluded reports whether the tenant has switched off a drug class.
func (t *TenantConfig) Excluded(class models.InterventionClass) bool {
	if t == nil || t.Exclude == nil {
		return false
	}
	return t.Exclude[class]
}

// Caution returns the tenant's extra monitoring note for a class, if any.
func (t *TenantConfig) Caution(class models.InterventionClass) string {
	if t == nil || t.Cautions == nil {
		return ""
	}
	return t.Cautions[class]
}
