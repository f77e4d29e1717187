package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/danrwr-web/signposting-sub009/pkg/config"
)

// Schema is the table the Postgres provider reads. The application never
// migrates it; provisioning owns the DDL.
const Schema = `
CREATE TABLE IF NOT EXISTS tenant_configs (
    tenant_id  TEXT PRIMARY KEY,
    version    TEXT NOT NULL,
    config     TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PostgresProvider loads tenant configuration from a single-row lookup in
// Postgres. Unknown tenants fall back to the built-in default, matching the
// file provider's behaviour.
type PostgresProvider struct {
	db       *sql.DB
	fallback *config.TenantConfig
}

// NewPostgresProvider opens the database connection and verifies it.
func NewPostgresProvider(dsn string, fallback *config.TenantConfig) (*PostgresProvider, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if fallback == nil {
		fallback = config.DefaultTenantConfig()
	}
	return &PostgresProvider{db: db, fallback: fallback}, nil
}

// Close closes the database connection.
func (p *PostgresProvider) Close() error {
	return p.db.Close()
}

// Get resolves a tenant's configuration from the tenant_configs table.
func (p *PostgresProvider) Get(ctx context.Context, tenantID string) (*config.TenantConfig, error) {
	if tenantID == "" || tenantID == "default" {
		return p.fallback, nil
	}

	var raw string
	query := `SELECT config FROM tenant_configs WHERE tenant_id = $1`
	err := p.db.QueryRowContext(ctx, query, tenantID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return p.fallback, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query tenant %s: %w", tenantID, err)
	}

	tc, err := config.ParseTenantConfig([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, err)
	}
	return tc, nil
}
