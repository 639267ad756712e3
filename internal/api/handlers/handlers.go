package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aanewg/listingshield/internal/domain/services"
	"github.com/aanewg/listingshield/internal/infrastructure/cache"
	"github.com/aanewg/listingshield/internal/infrastructure/database"
	"github.com/aanewg/listingshield/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Listings *ListingsHandler
	Reports  *ReportsHandler
	Stats    *StatsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Analysis *services.AnalysisService
	Cache    *cache.RedisCache
	DB       *database.PostgresDB
	Logger   *logger.Logger
	Version  string
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Cache, deps.DB, deps.Logger, deps.Version),
		Listings: NewListingsHandler(deps.Analysis, deps.Logger),
		Reports:  NewReportsHandler(deps.Analysis, deps.Logger),
		Stats:    NewStatsHandler(deps.Analysis, deps.Logger),
	}
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
