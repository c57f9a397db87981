package router

import (
	"net/http"

	"rto-ops-api/internal/handler"
	"rto-ops-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	HealthHandler     *handler.HealthHandler
	AuthHandler       *handler.AuthHandler
	IngestHandler     *handler.IngestHandler
	SubmissionHandler *handler.SubmissionHandler
	ReconcileHandler  *handler.ReconcileHandler
	CatalogHandler    *handler.CatalogHandler
	DashboardHandler  *handler.DashboardHandler
	AuthMiddleware    func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key", "X-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.HealthHandler != nil {
		r.Get("/api/status", cfg.HealthHandler.Status)
	}

	// AUTHENTICATED routes (use Group to apply auth middleware only to these)
	r.Group(func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware)
		}

		r.Route("/api/v1", func(r chi.Router) {
			// Health check endpoints
			if cfg.HealthHandler != nil {
				r.Get("/health", cfg.HealthHandler.Health)
				r.Get("/ready", cfg.HealthHandler.Ready)
			}

			// Auth endpoints
			if cfg.AuthHandler != nil {
				r.Route("/auth", func(r chi.Router) {
					r.Post("/login", cfg.AuthHandler.Login)
					r.Post("/logout", cfg.AuthHandler.Logout)
				})
			}

			// Return report ingestion
			if cfg.IngestHandler != nil {
				r.Post("/returns/{marketplace}/upload", cfg.IngestHandler.Upload)
			}

			// Manual RTO submissions
			if cfg.SubmissionHandler != nil {
				r.Route("/submissions", func(r chi.Router) {
					r.Post("/", cfg.SubmissionHandler.Create)
					r.Get("/", cfg.SubmissionHandler.List)
					r.Post("/{id}/claim", cfg.SubmissionHandler.ResolveClaim)
					r.Get("/{id}/adjustments", cfg.SubmissionHandler.Adjustments)
				})
			}

			// Bulk inventory reconciliation
			if cfg.ReconcileHandler != nil {
				r.Post("/inventory/reconcile", cfg.ReconcileHandler.Reconcile)
			}

			// Catalog maintenance
			if cfg.CatalogHandler != nil {
				r.Route("/catalog", func(r chi.Router) {
					r.Post("/skus", cfg.CatalogHandler.CreateSku)
					r.Post("/combos", cfg.CatalogHandler.CreateCombo)
					r.Post("/slots", cfg.CatalogHandler.CreateSlot)
				})
			}

			// Dashboard aggregates
			if cfg.DashboardHandler != nil {
				r.Get("/dashboard", cfg.DashboardHandler.Overview)
			}
		})
	})

	return r
}
