package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanewg/listingshield/internal/api/handlers"
	"github.com/aanewg/listingshield/internal/config"
	"github.com/aanewg/listingshield/internal/detection"
	"github.com/aanewg/listingshield/internal/domain/services"
	"github.com/aanewg/listingshield/pkg/logger"
)

func newTestRouter(t *testing.T, apiKey string) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Auth.APIKey = apiKey
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}

	log := logger.NewDefault()
	svc := services.NewAnalysisService(detection.NewEngine(), log)
	h := handlers.NewHandlers(handlers.Dependencies{
		Analysis: svc,
		Logger:   log,
		Version:  "test",
	})

	return NewRouter(cfg, h, nil, log)
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := newTestRouter(t, "secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_APIRoutesRequireKey(t *testing.T) {
	router := newTestRouter(t, "secret")

	paths := []string{
		"/api/v1/stats",
		"/api/v1/listings",
		"/api/v1/reports",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path=%s", path)
	}
}

func TestRouter_BearerKeyGrantsAccess(t *testing.T) {
	router := newTestRouter(t, "secret")

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AnalyzeEndToEnd(t *testing.T) {
	router := newTestRouter(t, "")

	body := `{
		"title": "Nintendo Switch OLED with games",
		"description": "Used Nintendo Switch OLED in good condition with two games included.",
		"price": 240,
		"category": "Electronics",
		"platform": "ebay"
	}`
	req := httptest.NewRequest("POST", "/api/v1/listings/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"trust_score"`)
	assert.Contains(t, rec.Body.String(), `"trust_tier"`)
}

func TestRouter_AnalyzeRejectsBadCategory(t *testing.T) {
	router := newTestRouter(t, "")

	body := `{
		"title": "iPhone 14 case",
		"description": "Brand new case for iPhone 14, still sealed.",
		"price": 15,
		"category": "electronics",
		"platform": "mercari"
	}`
	req := httptest.NewRequest("POST", "/api/v1/listings/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
