package handlers

import (
	"net/http"
	"time"

	"github.com/aanewg/listingshield/internal/infrastructure/cache"
	"github.com/aanewg/listingshield/internal/infrastructure/database"
	"github.com/aanewg/listingshield/pkg/logger"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cache   *cache.RedisCache
	db      *database.PostgresDB
	logger  *logger.Logger
	version string
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(c *cache.RedisCache, db *database.PostgresDB, log *logger.Logger, version string) *HealthHandler {
	return &HealthHandler{
		cache:   c,
		db:      db,
		logger:  log,
		version: version,
		started: time.Now(),
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
	})
}

// Ready handles GET /ready and verifies backing services
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := make(map[string]string)
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["postgres"] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			checks["postgres"] = "healthy"
		}
	} else {
		checks["postgres"] = "not configured"
	}

	if h.cache != nil {
		if err := h.cache.Client().Ping(ctx).Err(); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "not ready"
	}

	writeJSON(w, status, map[string]any{
		"status": overall,
		"checks": checks,
	})
}
