// Package api exposes the ledger over REST. Routes live under /api; every
// failure is rendered as {"error":{"code","message","entity"}}.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hearth-ledger/hearth/internal/app/ledger"
	"github.com/hearth-ledger/hearth/internal/app/params"
	"github.com/hearth-ledger/hearth/internal/app/reconcile"
	"github.com/hearth-ledger/hearth/internal/app/registry"
	"github.com/hearth-ledger/hearth/internal/app/report"
	"github.com/hearth-ledger/hearth/internal/domain"
	"github.com/hearth-ledger/hearth/internal/infra/logging"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Services are the application services behind the routes.
type Services struct {
	Accounts   *registry.Service
	Ledger     *ledger.Ledger
	Reconcile  *reconcile.Service
	Report     *report.Service
	Parameters *params.Service
}

// Server is the hearth HTTP API server.
type Server struct {
	svc            Services
	log            *zap.Logger
	metricsEnabled bool
	timeout        time.Duration
	health         func(*http.Request) error
}

// NewServer creates a new API server.
func NewServer(svc Services, log *zap.Logger) *Server {
	return &Server{
		svc:     svc,
		log:     logging.OrNop(log).Named("api"),
		timeout: 30 * time.Second,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetTimeout bounds each request's handling time.
func (s *Server) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// SetHealthCheck installs a readiness probe for /health.
func (s *Server) SetHealthCheck(fn func(*http.Request) error) { s.health = fn }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(instrument)

	r.Get("/health", s.handleHealth)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/account", func(r chi.Router) {
			r.Post("/", s.handleAccountInsert)
			r.Get("/select/active", s.handleAccountListActive)
			r.Get("/active", s.handleAccountListActive)
			r.Get("/select/{name}", s.handleAccountFind)
			r.Put("/activate/{name}", s.handleAccountActivate)
			r.Put("/deactivate/{name}", s.handleAccountDeactivate)
			r.Put("/recompute/{name}", s.handleAccountRecompute)
			r.Delete("/{name}", s.handleAccountDelete)
			r.Get("/totals", s.handleTotals)
			r.Get("/totals/{name}", s.handleAccountTotals)
			r.Get("/payment/required", s.handlePaymentRequired)
			r.Get("/open/{name}", s.handleOpenItems)
		})
		r.Route("/transfer", func(r chi.Router) {
			r.Post("/", s.handleTransferInsert)
			r.Get("/select", s.handleTransferList)
			r.Get("/active", s.handleTransferListActive)
			r.Get("/{id}", s.handleTransferFind)
			r.Delete("/{id}", s.handleTransferDelete)
		})
		r.Route("/payment", func(r chi.Router) {
			r.Post("/", s.handlePaymentInsert)
			r.Get("/select", s.handlePaymentList)
			r.Get("/active", s.handlePaymentListActive)
			r.Get("/{id}", s.handlePaymentFind)
			r.Delete("/{id}", s.handlePaymentDelete)
		})
		r.Route("/validation/amount", func(r chi.Router) {
			r.Post("/insert/{name}", s.handleValidationInsert)
			r.Get("/select/{name}/{state}", s.handleValidationSelect)
			r.Get("/latest/{name}/{state}", s.handleValidationLatest)
			r.Get("/active", s.handleValidationListActive)
			r.Get("/{id}", s.handleValidationFind)
			r.Delete("/{id}", s.handleValidationDelete)
		})
		r.Route("/parameter", func(r chi.Router) {
			r.Post("/", s.handleParameterInsert)
			r.Get("/select/active", s.handleParameterListActive)
			r.Get("/select/{name}", s.handleParameterFind)
			r.Put("/{name}", s.handleParameterUpdate)
			r.Delete("/{name}", s.handleParameterDelete)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeStrict decodes one size-limited JSON request body.
func decodeStrict(w http.ResponseWriter, r *http.Request, entity string, v any) error {
	return domain.DecodeStrict(body(w, r), entity, v)
}

func body(w http.ResponseWriter, r *http.Request) io.Reader {
	return http.MaxBytesReader(w, r.Body, maxBodyBytes)
}

// pathID parses a numeric path parameter.
func pathID(r *http.Request, entity string) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf(entity, "invalid id %q", raw)
	}
	return id, nil
}

func asDomainError(err error) *domain.Error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	return nil
}
