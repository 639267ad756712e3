package detection

import (
	"fmt"

	"github.com/aanewg/listingshield/internal/domain/models"
)

// AnalyzeSeller scores seller-side risk signals. Missing fields are
// simply skipped. The returned risk level only escalates as checks
// fire, never drops.
func (e *Engine) AnalyzeSeller(seller models.SellerInfo) (models.SellerAnalysis, []models.DetectedFlag, []models.DetectedBonus) {
	var (
		flags   []models.DetectedFlag
		bonuses []models.DetectedBonus
	)
	riskLevel := models.SeverityLow

	// Account age
	if seller.AccountAgeDays != nil {
		age := *seller.AccountAgeDays
		switch {
		case age < 7:
			flags = append(flags, models.DetectedFlag{
				Type:     models.FlagVeryNewSellerAccount,
				Severity: models.SeverityCritical,
				Title:    "Brand-New Seller Account",
				Description: fmt.Sprintf(
					"This account is only %d day(s) old. Scam accounts are frequently created fresh to run schemes before getting banned. Avoid high-value purchases from accounts this new.",
					age),
				Confidence: 0.92,
			})
			riskLevel = models.SeverityCritical
		case age < 30:
			flags = append(flags, models.DetectedFlag{
				Type:     models.FlagNewSellerAccount,
				Severity: models.SeverityHigh,
				Title:    "Very New Seller Account",
				Description: fmt.Sprintf(
					"Account is %d days old. New accounts with no track record carry higher risk - there is no history to verify trustworthiness.",
					age),
				Confidence: 0.75,
			})
			riskLevel = models.SeverityHigh
		case age >= 365:
			bonuses = append(bonuses, models.DetectedBonus{Reason: "Established account (1+ year)", Points: 5})
		}
	}

	// Review count
	if seller.ReviewCount != nil {
		reviews := *seller.ReviewCount
		if reviews < 5 {
			flags = append(flags, models.DetectedFlag{
				Type:     models.FlagLowReviewCount,
				Severity: models.SeverityMedium,
				Title:    "Few or No Reviews",
				Description: fmt.Sprintf(
					"Seller has only %d review(s). Without a review history it is hard to assess trustworthiness. Proceed carefully, especially for higher-priced items.",
					reviews),
				Confidence: 0.7,
			})
			if riskLevel == models.SeverityLow {
				riskLevel = models.SeverityMedium
			}
		} else if reviews >= 50 && seller.AvgRating != nil && *seller.AvgRating >= 4.5 {
			bonuses = append(bonuses, models.DetectedBonus{Reason: "50+ reviews with 4.5+ rating", Points: 5})
		}
	}

	// Perfect rating on a thin review history
	if seller.ReviewCount != nil && seller.AvgRating != nil {
		reviews := *seller.ReviewCount
		if reviews >= 5 && reviews < 15 && *seller.AvgRating == 5.0 {
			flags = append(flags, models.DetectedFlag{
				Type:     models.FlagReviewBurstPattern,
				Severity: models.SeverityHigh,
				Title:    "Suspicious Perfect Rating Pattern",
				Description: fmt.Sprintf(
					"Seller has a perfect 5.0 rating across %d reviews on a relatively new account. This pattern can indicate fabricated or incentivized reviews.",
					reviews),
				Confidence: 0.6,
			})
			if riskLevel != models.SeverityCritical {
				riskLevel = models.SeverityHigh
			}
		}
	}

	// Listing velocity
	if seller.ListingsLast24h != nil && *seller.ListingsLast24h > 20 {
		flags = append(flags, models.DetectedFlag{
			Type:     models.FlagHighListingVelocity,
			Severity: models.SeverityMedium,
			Title:    "High Listing Volume",
			Description: fmt.Sprintf(
				"Seller posted %d listings in the past 24 hours. While some resellers are high-volume, unusually rapid posting can indicate a bulk scam operation or dropshipping scheme.",
				*seller.ListingsLast24h),
			Confidence: 0.55,
		})
		if riskLevel == models.SeverityLow {
			riskLevel = models.SeverityMedium
		}
	}

	if seller.Verified != nil && *seller.Verified {
		bonuses = append(bonuses, models.DetectedBonus{Reason: "Seller identity verified", Points: 10})
	}

	return models.SellerAnalysis{RiskLevel: riskLevel}, flags, bonuses
}
