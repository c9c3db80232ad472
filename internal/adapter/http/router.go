package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/agriops/farmledger/internal/adapter/http/handler"
	"github.com/agriops/farmledger/internal/adapter/http/middleware"
	"github.com/agriops/farmledger/internal/infrastructure/metrics"
	"github.com/agriops/farmledger/internal/usecase"
)

// RouterConfig holds dependencies for the router. IdempotencyStore,
// RateLimiter and Metrics are optional; nil leaves that middleware off.
type RouterConfig struct {
	PostingHandler   *handler.PostingHandler
	LedgerHandler    *handler.LedgerHandler
	InventoryHandler *handler.InventoryHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Postings
		r.Post("/sales", cfg.PostingHandler.RecordSale)
		r.Post("/purchases", cfg.PostingHandler.RecordPurchase)
		r.Post("/expenses", cfg.PostingHandler.RecordExpense)
		r.Post("/payments", cfg.PostingHandler.RecordPayment)

		// Parties
		r.Route("/parties", func(r chi.Router) {
			r.Get("/{id}/balance", cfg.LedgerHandler.GetBalance)
			r.Get("/{id}/statement", cfg.LedgerHandler.GetStatement)
		})

		// Inventory
		r.Route("/items", func(r chi.Router) {
			r.Post("/production", cfg.InventoryHandler.RecordProduction)
			r.Get("/{id}", cfg.InventoryHandler.GetItem)
		})

		// Ledger
		r.Post("/entries/{id}/reverse", cfg.LedgerHandler.ReverseEntry)
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
