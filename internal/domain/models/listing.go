package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies the marketplace a listing was captured from.
type Platform string

const (
	PlatformMercari  Platform = "mercari"
	PlatformEbay     Platform = "ebay"
	PlatformFacebook Platform = "facebook"
	PlatformPoshmark Platform = "poshmark"
	PlatformDepop    Platform = "depop"
	PlatformManual   Platform = "manual" // pasted in by hand
)

// ValidPlatforms is the closed set of accepted platform values.
var ValidPlatforms = map[Platform]bool{
	PlatformMercari:  true,
	PlatformEbay:     true,
	PlatformFacebook: true,
	PlatformPoshmark: true,
	PlatformDepop:    true,
	PlatformManual:   true,
}

// Category buckets a listing for fallback price lookups.
type Category string

const (
	CategoryElectronics  Category = "Electronics"
	CategoryClothing     Category = "Clothing"
	CategoryShoes        Category = "Shoes"
	CategoryHandbags     Category = "Handbags"
	CategoryBeauty       Category = "Beauty"
	CategoryHome         Category = "Home"
	CategoryToys         Category = "Toys"
	CategoryCollectibles Category = "Collectibles"
	CategoryOther        Category = "Other"
)

// ValidCategories is the closed set of accepted category values.
var ValidCategories = map[Category]bool{
	CategoryElectronics:  true,
	CategoryClothing:     true,
	CategoryShoes:        true,
	CategoryHandbags:     true,
	CategoryBeauty:       true,
	CategoryHome:         true,
	CategoryToys:         true,
	CategoryCollectibles: true,
	CategoryOther:        true,
}

// Severity levels for detected flags
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank orders severities for escalation comparisons.
var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// MoreSevere reports whether s outranks other.
func (s Severity) MoreSevere(other Severity) bool {
	return severityRank[s] > severityRank[other]
}

// FlagType identifies the kind of signal a detector raised.
type FlagType string

const (
	FlagPriceWayBelowMarket      FlagType = "PRICE_WAY_BELOW_MARKET"
	FlagPriceBelowMarket         FlagType = "PRICE_BELOW_MARKET"
	FlagNewSellerAccount         FlagType = "NEW_SELLER_ACCOUNT"
	FlagVeryNewSellerAccount     FlagType = "VERY_NEW_SELLER_ACCOUNT"
	FlagLowReviewCount           FlagType = "LOW_REVIEW_COUNT"
	FlagStockPhotoSuspected      FlagType = "STOCK_PHOTO_SUSPECTED"
	FlagVagueDescription         FlagType = "VAGUE_DESCRIPTION"
	FlagShortDescription         FlagType = "SHORT_DESCRIPTION"
	FlagKeywordStuffing          FlagType = "KEYWORD_STUFFING"
	FlagOffPlatformLanguage      FlagType = "OFF_PLATFORM_LANGUAGE"
	FlagReviewBurstPattern       FlagType = "REVIEW_BURST_PATTERN"
	FlagNoAuthenticityProof      FlagType = "NO_AUTHENTICITY_PROOF"
	FlagHighListingVelocity      FlagType = "HIGH_LISTING_VELOCITY"
	FlagDescriptionImageMismatch FlagType = "DESCRIPTION_IMAGE_MISMATCH"
	FlagCategoryMismatch         FlagType = "CATEGORY_MISMATCH"
)

// TrustTier is the human-facing verdict band for a trust score.
type TrustTier string

const (
	TierHighlyTrusted TrustTier = "highly_trusted" // 90-100
	TierLooksGood     TrustTier = "looks_good"     // 70-89
	TierCaution       TrustTier = "caution"        // 50-69
	TierRisky         TrustTier = "risky"          // 30-49
	TierLikelyScam    TrustTier = "likely_scam"    // 0-29
)

// SellerInfo carries the seller-side signals available for a listing.
// Optional fields are pointers so absent data is distinguishable from zero.
type SellerInfo struct {
	AccountAgeDays  *int     `json:"account_age_days,omitempty"`
	ReviewCount     *int     `json:"review_count,omitempty"`
	AvgRating       *float64 `json:"avg_rating,omitempty"`
	ListingsLast24h *int     `json:"listings_last_24h,omitempty"`
	Verified        *bool    `json:"verified,omitempty"`
}

// ListingInput is everything the detection engine sees about one listing.
// ImageURLs are carried for display and the AI pass; no rule reads them.
type ListingInput struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Price          float64    `json:"price"`
	Category       Category   `json:"category"`
	Platform       Platform   `json:"platform"`
	SellerUsername string     `json:"seller_username,omitempty"`
	ImageURLs      []string   `json:"image_urls,omitempty"`
	Seller         SellerInfo `json:"seller"`
}

// DetectedFlag is one suspicion raised by a detector.
type DetectedFlag struct {
	Type        FlagType `json:"type"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"` // 0.0-1.0
}

// DetectedBonus is a positive signal that adds points back to the score.
type DetectedBonus struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// UserReport is community feedback on a previously analyzed listing.
type UserReport struct {
	ID         uuid.UUID `json:"id"`
	AnalysisID uuid.UUID `json:"analysis_id"`
	Reason     string    `json:"reason"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
