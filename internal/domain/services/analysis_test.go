package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanewg/listingshield/internal/detection"
	"github.com/aanewg/listingshield/internal/domain/models"
	"github.com/aanewg/listingshield/pkg/logger"
)

type stubAdvisor struct {
	opinion *models.AIOpinion
	err     error
}

func (s *stubAdvisor) SecondOpinion(_ context.Context, _ *models.Analysis) (*models.AIOpinion, error) {
	return s.opinion, s.err
}

func newTestService(t *testing.T, opts ...AnalysisServiceOption) *AnalysisService {
	t.Helper()
	return NewAnalysisService(detection.NewEngine(), logger.NewDefault(), opts...)
}

func validInput() models.ListingInput {
	return models.ListingInput{
		Title:       "Nintendo Switch OLED with games",
		Description: "Used Nintendo Switch OLED in good condition with two games included.",
		Price:       240,
		Category:    models.CategoryElectronics,
		Platform:    models.PlatformEbay,
	}
}

func TestAnalyze_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.ListingInput)
	}{
		{"missing title", func(in *models.ListingInput) { in.Title = "" }},
		{"missing description", func(in *models.ListingInput) { in.Description = "" }},
		{"zero price", func(in *models.ListingInput) { in.Price = 0 }},
		{"negative price", func(in *models.ListingInput) { in.Price = -5 }},
		{"missing platform", func(in *models.ListingInput) { in.Platform = "" }},
		{"unknown platform", func(in *models.ListingInput) { in.Platform = "craigslist" }},
		{"unknown category", func(in *models.ListingInput) { in.Category = "Gadgets" }},
		{"lowercase category", func(in *models.ListingInput) { in.Category = "electronics" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := svc.Analyze(ctx, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAnalyze_EmptyCategoryAllowed(t *testing.T) {
	svc := newTestService(t)

	input := validInput()
	input.Category = ""

	result, err := svc.Analyze(context.Background(), input)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestAnalyze_MiscasedCategoryRejectedBeforeEngine(t *testing.T) {
	svc := newTestService(t)

	// A non-enum category would skip the Electronics price fallback and
	// raise a spurious category-mismatch flag, so it must not reach the
	// engine at all.
	input := models.ListingInput{
		Title:       "iPhone 14 case - brand new",
		Description: "Brand new case for iPhone 14, still sealed.",
		Price:       15,
		Category:    "electronics",
		Platform:    models.PlatformMercari,
	}

	_, err := svc.Analyze(context.Background(), input)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnalyze_EngineOnly(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Analyze(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.Equal(t, result.Analysis.Trust.Score, result.TrustScore)
	assert.Equal(t, result.Analysis.Trust.Tier, result.TrustTier)
	assert.Nil(t, result.AIOpinion)
	assert.False(t, result.Cached)
}

func TestAnalyze_AIOpinionBlendsScore(t *testing.T) {
	opinion := &models.AIOpinion{
		Score:        40,
		Summary:      "The listing has several concerning signals.",
		BlendedScore: 55,
		BlendedTier:  models.TierCaution,
	}
	svc := newTestService(t, WithAdvisor(&stubAdvisor{opinion: opinion}))

	result, err := svc.Analyze(context.Background(), validInput())
	require.NoError(t, err)

	require.NotNil(t, result.AIOpinion)
	assert.Equal(t, 55, result.TrustScore)
	assert.Equal(t, models.TierCaution, result.TrustTier)
}

func TestAnalyze_AIFailureFallsBackToRuleScore(t *testing.T) {
	svc := newTestService(t, WithAdvisor(&stubAdvisor{err: errors.New("provider timeout")}))

	result, err := svc.Analyze(context.Background(), validInput())
	require.NoError(t, err)

	assert.Nil(t, result.AIOpinion)
	assert.Equal(t, result.Analysis.Trust.Score, result.TrustScore)
}

func TestSubmitReport_Validation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SubmitReport(context.Background(), uuid.Nil, "", "details")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListReportsForAnalysis_WithoutPersistence(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ListReportsForAnalysis(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAnalysis_WithoutPersistence(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetAnalysis(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyze_CarriesSellerIdentityAndImages(t *testing.T) {
	svc := newTestService(t)

	input := validInput()
	input.SellerUsername = "retro_games_41"
	input.ImageURLs = []string{"https://img.example/switch.jpg"}

	result, err := svc.Analyze(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "retro_games_41", result.Analysis.Input.SellerUsername)
	assert.Equal(t, input.ImageURLs, result.Analysis.Input.ImageURLs)

	// Seller identity is part of the cache identity too.
	other := validInput()
	other.SellerUsername = "someone_else"
	assert.NotEqual(t, inputFingerprint(input), inputFingerprint(other))
}

func TestInputFingerprint_Deterministic(t *testing.T) {
	a := inputFingerprint(validInput())
	b := inputFingerprint(validInput())
	assert.Equal(t, a, b)

	other := validInput()
	other.Price = 999
	assert.NotEqual(t, a, inputFingerprint(other))
}
