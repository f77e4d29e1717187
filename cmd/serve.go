package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danrwr-web/signposting-sub009/pkg/audit"
	"github.com/danrwr-web/signposting-sub009/pkg/config"
	"github.com/danrwr-web/signposting-sub009/pkg/engine"
	"github.com/danrwr-web/signposting-sub009/pkg/metrics"
	"github.com/danrwr-web/signposting-sub009/pkg/models"
	"github.com/danrwr-web/signposting-sub009/pkg/tenant"
	"github.com/danrwr-web/signposting-sub009/pkg/validation"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the signposting engine as an HTTP service",
	Long: `Run the signposting engine as an HTTP service for integration with
practice systems.

The server exposes a single evaluation endpoint plus health and metrics
endpoints. Tenant configuration is resolved per request from the configured
backend (file directory or Postgres) through a read-through cache, and every
evaluation can be published to a NATS audit subject as an exact
input/output record.

Endpoints:
  POST /api/v1/evaluate   evaluate a patient context
  GET  /healthz           liveness probe
  GET  /readyz            readiness probe
  GET  /metrics           Prometheus metrics

Examples:
  # Serve with file-backed tenant configuration
  signpost serve --port 8080 --tenant-backend file

  # Serve with Postgres tenant configuration and NATS auditing
  signpost serve --tenant-backend postgres \
    --postgres-dsn "postgres://signpost@db/signpost?sslmode=disable" \
    --nats-url nats://localhost:4222`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "HTTP server port")
	serveCmd.Flags().String("tenant-backend", "file", "tenant configuration backend: 'file' or 'postgres'")
	serveCmd.Flags().String("postgres-dsn", "", "Postgres DSN for the tenant configuration store")
	serveCmd.Flags().Duration("cache-ttl", 5*time.Minute, "tenant configuration cache TTL")
	serveCmd.Flags().String("nats-url", "", "NATS server URL for audit publishing (empty disables auditing)")
	serveCmd.Flags().String("nats-subject", "signpost.audit.evaluations", "NATS subject for audit records")

	bindFlags := []string{"port", "tenant-backend", "postgres-dsn", "cache-ttl", "nats-url", "nats-subject"}
	for _, name := range bindFlags {
		if err := viper.BindPFlag("server."+name, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind server.%s flag: %v", name, err))
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	appCfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	provider, cleanup, err := buildTenantProvider(appCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize tenant provider: %w", err)
	}
	defer cleanup()

	sink, err := buildAuditSink(appCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize audit sink: %w", err)
	}
	defer sink.Close()

	server := &EvaluationServer{
		Engine:  engine.New(),
		Tenants: provider,
		Audit:   sink,
		Logger:  log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/evaluate", server.evaluateHandler)
	mux.HandleFunc("/healthz", server.healthzHandler)
	mux.HandleFunc("/readyz", server.readyzHandler)
	mux.Handle("/metrics", promhttp.Handler())

	port := viper.GetInt("server.port")
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  appCfg.Server.ReadTimeout,
		WriteTimeout: appCfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Starting signposting server",
		"port", port,
		"tenant_backend", viper.GetString("server.tenant-backend"),
		"audit_enabled", viper.GetString("server.nats-url") != "")

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-interrupt:
		log.Info("Received shutdown signal", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), appCfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.Error("Server shutdown error", "error", err)
			return err
		}

		log.Info("Server shut down gracefully")
	}

	return nil
}

// buildTenantProvider wires the configured tenant backend behind a
// read-through cache. The returned cleanup closes backend resources.
func buildTenantProvider(appCfg *config.SignpostConfig) (tenant.Provider, func(), error) {
	fallback := config.DefaultTenantConfig()
	ttl := viper.GetDuration("server.cache-ttl")
	if ttl == 0 {
		ttl = appCfg.TenantStore.CacheTTL
	}

	switch backend := viper.GetString("server.tenant-backend"); backend {
	case "file":
		dir := viper.GetString("tenant-dir")
		if dir == "" {
			dir = appCfg.TenantStore.Dir
		}
		return tenant.NewCachedProvider(tenant.NewFileProvider(dir, fallback), ttl), func() {}, nil

	case "postgres":
		dsn := viper.GetString("server.postgres-dsn")
		if dsn == "" {
			dsn = appCfg.TenantStore.PostgresDSN
		}
		if dsn == "" {
			return nil, nil, fmt.Errorf("postgres backend selected but no DSN configured")
		}
		pg, err := tenant.NewPostgresProvider(dsn, fallback)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if cerr := pg.Close(); cerr != nil {
				GetLogger().Error("Failed to close tenant store", "error", cerr)
			}
		}
		return tenant.NewCachedProvider(pg, ttl), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("invalid tenant-backend: %s (must be 'file' or 'postgres')", backend)
	}
}

// buildAuditSink returns a NATS sink when a URL is configured, otherwise a
// no-op sink.
func buildAuditSink(appCfg *config.SignpostConfig) (audit.Sink, error) {
	url := viper.GetString("server.nats-url")
	if url == "" {
		url = appCfg.Audit.NATSURL
	}
	if url == "" {
		return audit.NopSink{}, nil
	}

	subject := viper.GetString("server.nats-subject")
	if subject == "" {
		subject = appCfg.Audit.Subject
	}
	return audit.NewNATSSink(url, subject)
}

// EvaluationServer handles evaluation API requests
type EvaluationServer struct {
	Engine  *engine.Engine
	Tenants tenant.Provider
	Audit   audit.Sink
	Logger  *slog.Logger
}

// EvaluateRequest is the evaluation endpoint request body.
type EvaluateRequest struct {
	Tenant  string                 `json:"tenant"`
	Context *models.PatientContext `json:"context"`
}

type apiError struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// evaluateHandler evaluates a patient context for a tenant
func (s *EvaluationServer) evaluateHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to decode request body", nil)
		return
	}

	if req.Context == nil {
		s.writeError(w, http.StatusBadRequest, "missing patient context", nil)
		return
	}

	if result := validation.ValidateTenantID(req.Tenant); !result.Valid {
		s.writeError(w, http.StatusUnprocessableEntity, "invalid tenant id", nil)
		return
	}

	if result := validation.ValidatePatientContext(req.Context); !result.Valid {
		details := make([]string, 0, len(result.Errors))
		for _, verr := range result.Errors {
			details = append(details, verr.Error())
		}
		s.writeError(w, http.StatusUnprocessableEntity, "invalid patient context", details)
		return
	}

	tenantCfg, err := s.Tenants.Get(r.Context(), req.Tenant)
	if err != nil {
		metrics.TenantConfigLookups.WithLabelValues("error").Inc()
		s.Logger.Error("Tenant configuration lookup failed", "tenant", req.Tenant, "error", err)
		s.writeError(w, http.StatusInternalServerError, "tenant configuration unavailable", nil)
		return
	}
	metrics.TenantConfigLookups.WithLabelValues("ok").Inc()

	result := s.Engine.Evaluate(req.Context, tenantCfg)

	metrics.Evaluations.WithLabelValues(tenantCfg.Tenant, string(result.Status), string(result.Category)).Inc()
	if result.IsEscalation() {
		metrics.Escalations.WithLabelValues(tenantCfg.Tenant).Inc()
	}

	if err := s.Audit.Publish(&models.EvaluationRecord{
		Tenant:        tenantCfg.Tenant,
		ConfigVersion: tenantCfg.Version,
		Input:         *req.Context,
		Output:        *result,
		EvaluatedAt:   time.Now().UTC(),
	}); err != nil {
		// Auditing must never block the clinical response.
		s.Logger.Error("Failed to publish audit record", "tenant", tenantCfg.Tenant, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.Logger.Error("Failed to write response", "error", err)
	}

	duration := time.Since(start)
	metrics.EvaluationLatency.WithLabelValues(string(result.Status)).Observe(duration.Seconds())

	s.Logger.Info("Completed evaluation",
		"tenant", tenantCfg.Tenant,
		"status", result.Status,
		"category", result.Category,
		"escalation", result.IsEscalation(),
		"duration", duration)
}

func (s *EvaluationServer) writeError(w http.ResponseWriter, code int, message string, details []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(apiError{Error: message, Details: details}); err != nil {
		s.Logger.Error("Failed to write error response", "error", err)
	}
}

// healthzHandler handles liveness check requests
func (s *EvaluationServer) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		s.Logger.Error("Failed to write health check response", "error", err)
	}
}

// readyzHandler handles readiness check requests. The engine is stateless,
// so readiness only checks that the default tenant configuration resolves.
func (s *EvaluationServer) readyzHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Tenants.Get(r.Context(), ""); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "tenant store unavailable", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("Ready")); err != nil {
		s.Logger.Error("Failed to write readiness check response", "error", err)
	}
}
