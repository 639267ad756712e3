package detection

import (
	"math"

	"github.com/aanewg/listingshield/internal/domain/models"
)

// deductionRange is the min/max points a severity can subtract. The
// actual deduction is the range midpoint scaled by flag confidence.
type deductionRange struct {
	Min int
	Max int
}

var severityDeductions = map[models.Severity]deductionRange{
	models.SeverityCritical: {25, 40},
	models.SeverityHigh:     {15, 25},
	models.SeverityMedium:   {8, 15},
	models.SeverityLow:      {3, 8},
}

func deductionFor(severity models.Severity, confidence float64) int {
	r, ok := severityDeductions[severity]
	if !ok {
		r = severityDeductions[models.SeverityLow]
	}
	base := float64(r.Min+r.Max) / 2
	return int(math.Round(base * confidence))
}

// TierForScore maps a 0-100 trust score to its verdict band.
func TierForScore(score int) models.TrustTier {
	switch {
	case score >= 90:
		return models.TierHighlyTrusted
	case score >= 70:
		return models.TierLooksGood
	case score >= 50:
		return models.TierCaution
	case score >= 30:
		return models.TierRisky
	default:
		return models.TierLikelyScam
	}
}

// CalculateTrustScore aggregates flags and bonuses into a final score.
// Starts from 100, subtracts a confidence-scaled deduction per flag,
// adds bonus points, and clamps to [0, 100].
func CalculateTrustScore(flags []models.DetectedFlag, bonuses []models.DetectedBonus) models.TrustScore {
	var deductions []models.ScoreItem
	totalDeductions := 0
	for _, f := range flags {
		d := deductionFor(f.Severity, f.Confidence)
		totalDeductions += d
		deductions = append(deductions, models.ScoreItem{Reason: f.Title, Points: -d})
	}

	var bonusItems []models.ScoreItem
	totalBonuses := 0
	for _, b := range bonuses {
		totalBonuses += b.Points
		bonusItems = append(bonusItems, models.ScoreItem{Reason: b.Reason, Points: b.Points})
	}

	score := 100 - totalDeductions + totalBonuses
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return models.TrustScore{
		Score:           score,
		Tier:            TierForScore(score),
		Base:            100,
		Deductions:      deductions,
		Bonuses:         bonusItems,
		TotalDeductions: totalDeductions,
		TotalBonuses:    totalBonuses,
	}
}
