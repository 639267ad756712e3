package detection

import (
	"fmt"
	"math"

	"github.com/aanewg/listingshield/internal/domain/models"
)

// AnalyzePricing compares the asking price against the market reference
// and raises at most one price flag, graded by how far below market the
// listing sits.
func (e *Engine) AnalyzePricing(price float64, category models.Category, title string) (models.PricingAnalysis, []models.DetectedFlag) {
	avg, matchedRule, ok := e.prices.MarketAverage(title, category)
	if !ok {
		return models.PricingAnalysis{}, nil
	}

	deviation := DeviationPercent(price, avg)
	result := models.PricingAnalysis{
		MarketAverage: &avg,
		DeviationPct:  &deviation,
		MatchedRule:   matchedRule,
	}

	var flags []models.DetectedFlag
	switch {
	case deviation < -50:
		flags = append(flags, models.DetectedFlag{
			Type:     models.FlagPriceWayBelowMarket,
			Severity: models.SeverityCritical,
			Title:    "Price Suspiciously Low",
			Description: fmt.Sprintf(
				"Listed at $%.2f - more than 50%% below the typical market price of ~$%.0f for this item. This is a strong indicator of counterfeit goods, a bait-and-switch, or a non-existent listing.",
				price, avg),
			Confidence: 0.9,
		})
	case deviation < -40:
		flags = append(flags, models.DetectedFlag{
			Type:     models.FlagPriceBelowMarket,
			Severity: models.SeverityHigh,
			Title:    "Price Well Below Market",
			Description: fmt.Sprintf(
				"Listed at $%.2f, which is %.0f%% below the estimated market average of ~$%.0f. Legitimate bargains exist, but this gap warrants extra scrutiny.",
				price, math.Abs(deviation), avg),
			Confidence: 0.8,
		})
	case deviation < -25:
		flags = append(flags, models.DetectedFlag{
			Type:     models.FlagPriceBelowMarket,
			Severity: models.SeverityMedium,
			Title:    "Price Below Market Average",
			Description: fmt.Sprintf(
				"Listed at $%.2f, about %.0f%% below the estimated market average of ~$%.0f. Worth verifying authenticity before purchasing.",
				price, math.Abs(deviation), avg),
			Confidence: 0.65,
		})
	}

	return result, flags
}
