package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aanewg/listingshield/internal/domain/models"
)

func TestDeductionFor(t *testing.T) {
	tests := []struct {
		severity   models.Severity
		confidence float64
		want       int
	}{
		{models.SeverityCritical, 0.9, 29},
		{models.SeverityCritical, 0.92, 30},
		{models.SeverityCritical, 0.95, 31},
		{models.SeverityHigh, 0.8, 16},
		{models.SeverityHigh, 0.75, 15},
		{models.SeverityHigh, 0.6, 12},
		{models.SeverityMedium, 0.7, 8},
		{models.SeverityMedium, 0.72, 8},
		{models.SeverityMedium, 0.65, 7},
		{models.SeverityMedium, 0.55, 6},
		{models.SeverityLow, 0.8, 4},
		{models.SeverityLow, 0.65, 4},
		{models.SeverityLow, 0.5, 3},
		// Unknown severities fall back to the low range.
		{models.Severity("weird"), 0.8, 4},
	}

	for _, tt := range tests {
		got := deductionFor(tt.severity, tt.confidence)
		assert.Equal(t, tt.want, got, "severity=%s confidence=%v", tt.severity, tt.confidence)
	}
}

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score int
		want  models.TrustTier
	}{
		{100, models.TierHighlyTrusted},
		{90, models.TierHighlyTrusted},
		{89, models.TierLooksGood},
		{70, models.TierLooksGood},
		{69, models.TierCaution},
		{50, models.TierCaution},
		{49, models.TierRisky},
		{30, models.TierRisky},
		{29, models.TierLikelyScam},
		{0, models.TierLikelyScam},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForScore(tt.score), "score=%d", tt.score)
	}
}

func TestCalculateTrustScore(t *testing.T) {
	t.Run("clean listing stays at 100", func(t *testing.T) {
		result := CalculateTrustScore(nil, nil)
		assert.Equal(t, 100, result.Score)
		assert.Equal(t, models.TierHighlyTrusted, result.Tier)
	})

	t.Run("deductions and bonuses combine", func(t *testing.T) {
		flags := []models.DetectedFlag{
			{Title: "Price far below market", Severity: models.SeverityCritical, Confidence: 0.9}, // 29
			{Title: "Short description", Severity: models.SeverityLow, Confidence: 0.8},           // 4
		}
		bonuses := []models.DetectedBonus{
			{Reason: "Seller identity verified", Points: 10},
		}
		result := CalculateTrustScore(flags, bonuses)
		assert.Equal(t, 33, result.TotalDeductions)
		assert.Equal(t, 10, result.TotalBonuses)
		assert.Equal(t, 77, result.Score)
		assert.Equal(t, models.TierLooksGood, result.Tier)
	})

	t.Run("breakdown itemizes every flag and bonus in order", func(t *testing.T) {
		flags := []models.DetectedFlag{
			{Title: "Price far below market", Severity: models.SeverityCritical, Confidence: 0.9},
			{Title: "Short description", Severity: models.SeverityLow, Confidence: 0.8},
		}
		bonuses := []models.DetectedBonus{
			{Reason: "Seller identity verified", Points: 10},
		}
		result := CalculateTrustScore(flags, bonuses)

		assert.Equal(t, 100, result.Base)
		assert.Equal(t, []models.ScoreItem{
			{Reason: "Price far below market", Points: -29},
			{Reason: "Short description", Points: -4},
		}, result.Deductions)
		assert.Equal(t, []models.ScoreItem{
			{Reason: "Seller identity verified", Points: 10},
		}, result.Bonuses)
	})

	t.Run("score is clamped at zero", func(t *testing.T) {
		flags := []models.DetectedFlag{
			{Severity: models.SeverityCritical, Confidence: 0.95}, // 31
			{Severity: models.SeverityCritical, Confidence: 0.92}, // 30
			{Severity: models.SeverityCritical, Confidence: 0.9},  // 29
			{Severity: models.SeverityHigh, Confidence: 0.8},      // 16
		}
		result := CalculateTrustScore(flags, nil)
		assert.Equal(t, 106, result.TotalDeductions)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, models.TierLikelyScam, result.Tier)
	})

	t.Run("score is clamped at 100", func(t *testing.T) {
		bonuses := []models.DetectedBonus{
			{Reason: "Established account (1+ year)", Points: 5},
			{Reason: "Seller identity verified", Points: 10},
		}
		result := CalculateTrustScore(nil, bonuses)
		assert.Equal(t, 100, result.Score)
	})
}
