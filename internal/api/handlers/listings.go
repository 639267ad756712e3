package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aanewg/listingshield/internal/domain/models"
	"github.com/aanewg/listingshield/internal/domain/services"
	"github.com/aanewg/listingshield/pkg/logger"
)

// ListingsHandler handles listing analysis endpoints
type ListingsHandler struct {
	analysis *services.AnalysisService
	logger   *logger.Logger
}

// NewListingsHandler creates a new listings handler
func NewListingsHandler(analysis *services.AnalysisService, log *logger.Logger) *ListingsHandler {
	return &ListingsHandler{
		analysis: analysis,
		logger:   log,
	}
}

// analyzeRequest is the POST /listings/analyze payload
type analyzeRequest struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	Category       string            `json:"category"`
	Platform       string            `json:"platform"`
	SellerUsername string            `json:"seller_username"`
	ImageURLs      []string          `json:"image_urls"`
	Seller         models.SellerInfo `json:"seller"`
}

// Analyze handles POST /listings/analyze
func (h *ListingsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	input := models.ListingInput{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Category:       models.Category(req.Category),
		Platform:       models.Platform(req.Platform),
		SellerUsername: req.SellerUsername,
		ImageURLs:      req.ImageURLs,
		Seller:         req.Seller,
	}

	result, err := h.analysis.Analyze(r.Context(), input)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidInput) {
			h.logger.Error().Err(err).Msg("Failed to analyze listing")
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /listings/{id}
func (h *ListingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	record, err := h.analysis.GetAnalysis(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// List handles GET /listings
func (h *ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.analysis.ListRecentAnalyses(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list analyses")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analyses": records,
		"count":    len(records),
	})
}
