// Package detection implements the rule-based trust scoring engine for
// marketplace listings. All checks are deterministic: the same input
// always produces the same flags, bonuses, and score.
package detection

import "github.com/aanewg/listingshield/internal/domain/models"

// Engine runs the full rule pipeline over a listing. It holds only
// immutable rule tables and is safe for concurrent use.
type Engine struct {
	prices *PriceReference
}

// NewEngine builds an engine with the built-in rule tables.
func NewEngine() *Engine {
	return &Engine{prices: NewPriceReference()}
}

// Analyze runs pricing, seller, and description checks and aggregates
// the results into a trust score.
func (e *Engine) Analyze(input models.ListingInput) models.Analysis {
	pricing, priceFlags := e.AnalyzePricing(input.Price, input.Category, input.Title)
	seller, sellerFlags, sellerBonuses := e.AnalyzeSeller(input.Seller)
	description, descFlags, descBonuses := e.AnalyzeDescription(input.Title, input.Description, input.Category)

	flags := make([]models.DetectedFlag, 0, len(priceFlags)+len(sellerFlags)+len(descFlags))
	flags = append(flags, priceFlags...)
	flags = append(flags, sellerFlags...)
	flags = append(flags, descFlags...)

	bonuses := make([]models.DetectedBonus, 0, len(sellerBonuses)+len(descBonuses))
	bonuses = append(bonuses, sellerBonuses...)
	bonuses = append(bonuses, descBonuses...)

	trust := CalculateTrustScore(flags, bonuses)

	return models.Analysis{
		Input:       input,
		Pricing:     pricing,
		Seller:      seller,
		Description: description,
		Flags:       flags,
		Bonuses:     bonuses,
		Trust:       trust,
	}
}
