package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aanewg/listingshield/internal/api/handlers"
	"github.com/aanewg/listingshield/internal/api/middleware"
	"github.com/aanewg/listingshield/internal/config"
	"github.com/aanewg/listingshield/internal/infrastructure/cache"
	"github.com/aanewg/listingshield/pkg/logger"
)

// NewRouter assembles the HTTP router
func NewRouter(cfg *config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	if cfg.RateLimit.Enabled && c != nil {
		r.Use(middleware.RateLimiter(c, cfg.RateLimit))
	}

	r.Get("/health", h.Health.Check)
	r.Get("/ready", h.Health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth.APIKey))

			r.Get("/stats", h.Stats.Get)

			r.Post("/listings/analyze", h.Listings.Analyze)
			r.Get("/listings", h.Listings.List)
			r.Get("/listings/{id}", h.Listings.Get)
			r.Get("/listings/{id}/reports", h.Reports.ListForAnalysis)

			r.Post("/reports", h.Reports.Create)
			r.Get("/reports", h.Reports.List)
		})
	})

	return r
}
