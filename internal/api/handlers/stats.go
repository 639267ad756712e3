package handlers

import (
	"net/http"

	"github.com/aanewg/listingshield/internal/domain/services"
	"github.com/aanewg/listingshield/pkg/logger"
)

// StatsHandler handles aggregate statistics endpoints
type StatsHandler struct {
	analysis *services.AnalysisService
	logger   *logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(analysis *services.AnalysisService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		analysis: analysis,
		logger:   log,
	}
}

// Get handles GET /stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analysis.GetStats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute stats")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
