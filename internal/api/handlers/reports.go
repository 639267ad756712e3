package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aanewg/listingshield/internal/domain/services"
	"github.com/aanewg/listingshield/pkg/logger"
)

// ReportsHandler handles user report endpoints
type ReportsHandler struct {
	analysis *services.AnalysisService
	logger   *logger.Logger
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(analysis *services.AnalysisService, log *logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		analysis: analysis,
		logger:   log,
	}
}

// createReportRequest is the POST /reports payload
type createReportRequest struct {
	AnalysisID string `json:"analysis_id"`
	Reason     string `json:"reason"`
	Details    string `json:"details"`
}

// Create handles POST /reports
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	analysisID, err := uuid.Parse(req.AnalysisID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	report, err := h.analysis.SubmitReport(r.Context(), analysisID, req.Reason, req.Details)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

// ListForAnalysis handles GET /listings/{id}/reports
func (h *ReportsHandler) ListForAnalysis(w http.ResponseWriter, r *http.Request) {
	analysisID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	reports, err := h.analysis.ListReportsForAnalysis(r.Context(), analysisID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}

// List handles GET /reports
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	reports, err := h.analysis.ListReports(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list reports")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}
