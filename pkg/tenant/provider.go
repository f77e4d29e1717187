// Package tenant resolves per-tenant Local Configuration for the signposting
// engine. Providers return already-resolved, read-only config values; the
// engine never touches storage itself.
package tenant

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danrwr-web/signposting-sub009/pkg/config"
)

// Provider supplies the Local Configuration for a tenant. Implementations
// must return a config value that callers treat as immutable; hot reloads
// must swap references, never mutate fields in place.
type Provider interface {
	Get(ctx context.Context, tenantID string) (*config.TenantConfig, error)
}

// FileProvider loads tenant configuration from <dir>/<tenant>.yaml. Unknown
// tenants fall back to the built-in default configuration so a missing file
// never blocks an evaluation.
type FileProvider struct {
	dir      string
	fallback *config.TenantConfig
}

// NewFileProvider creates a file-backed provider. A nil fallback uses the
// built-in default tenant configuration.
func NewFileProvider(dir string, fallback *config.TenantConfig) *FileProvider {
	if fallback == nil {
		fallback = config.DefaultTenantConfig()
	}
	return &FileProvider{dir: dir, fallback: fallback}
}

// Get resolves a tenant's configuration from disk.
func (p *FileProvider) Get(_ context.Context, tenantID string) (*config.TenantConfig, error) {
	if tenantID == "" || tenantID == "default" {
		return p.fallback, nil
	}

	path := filepath.Join(p.dir, fmt.Sprintf("%s.yaml", tenantID))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p.fallback, nil
	}

	tc, err := config.LoadTenantFile(path)
	if err != nil {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, err)
	}
	return tc, nil
}

// StaticProvider always returns the same configuration. Used in tests and by
// the evaluate command when a tenant file is passed explicitly.
type StaticProvider struct {
	cfg *config.TenantConfig
}

// NewStaticProvider wraps a fixed tenant configuration.
func NewStaticProvider(cfg *config.TenantConfig) *StaticProvider {
	if cfg == nil {
		cfg = config.DefaultTenantConfig()
	}
	return &StaticProvider{cfg: cfg}
}

// Get returns the wrapped configuration for every tenant.
func (p *StaticProvider) Get(context.Context, string) (*config.TenantConfig, error) {
	return p.cfg, nil
}
