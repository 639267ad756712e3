package models

import (
	"time"

	"github.com/google/uuid"
)

// PricingAnalysis is the outcome of the price-deviation check.
type PricingAnalysis struct {
	MarketAverage *float64 `json:"market_average,omitempty"`
	DeviationPct  *float64 `json:"deviation_pct,omitempty"`
	MatchedRule   string   `json:"matched_rule,omitempty"` // keyword rule or category fallback
}

// SellerAnalysis summarizes the seller heuristic pass.
type SellerAnalysis struct {
	RiskLevel Severity `json:"risk_level"`
}

// DescriptionAnalysis summarizes the textual red-flag pass.
type DescriptionAnalysis struct {
	WordCount    int `json:"word_count"`
	QualityScore int `json:"quality_score"` // 0-100, starts at 100
}

// ScoreItem is one line of the score breakdown: the literal flag title
// or bonus reason with its point delta. Deductions are negative.
type ScoreItem struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// TrustScore is the aggregated verdict with its arithmetic breakdown.
// Deductions keep the original flag order (price, seller, description)
// so the arithmetic is reproducible from the breakdown alone.
type TrustScore struct {
	Score           int         `json:"score"` // 0-100
	Tier            TrustTier   `json:"tier"`
	Base            int         `json:"base"`
	Deductions      []ScoreItem `json:"deductions,omitempty"`
	Bonuses         []ScoreItem `json:"bonuses,omitempty"`
	TotalDeductions int         `json:"total_deductions"`
	TotalBonuses    int         `json:"total_bonuses"`
}

// Analysis is the full engine output for one listing.
type Analysis struct {
	Input       ListingInput        `json:"input"`
	Pricing     PricingAnalysis     `json:"pricing"`
	Seller      SellerAnalysis      `json:"seller"`
	Description DescriptionAnalysis `json:"description"`
	Flags       []DetectedFlag      `json:"flags"`
	Bonuses     []DetectedBonus     `json:"bonuses"`
	Trust       TrustScore          `json:"trust"`
}

// AIFlag is a concern raised by the model that no rule engine check
// covers, so it carries no FlagType.
type AIFlag struct {
	Title       string   `json:"title"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"`
}

// AIOpinion is the optional LLM second pass over a rule analysis.
// BlendedScore combines the rule score with the model's score and
// becomes the stored trust score when the pass succeeds.
type AIOpinion struct {
	Score           int       `json:"score"` // 0-100
	Summary         string    `json:"summary"`
	Recommendation  string    `json:"recommendation,omitempty"`
	ScamType        string    `json:"scam_type,omitempty"`
	AdditionalFlags []AIFlag  `json:"additional_flags,omitempty"`
	BlendedScore    int       `json:"blended_score"`
	BlendedTier     TrustTier `json:"blended_tier"`
	Model           string    `json:"model,omitempty"`
}

// AnalysisRecord is a persisted analysis row.
type AnalysisRecord struct {
	ID             uuid.UUID       `json:"id"`
	Platform       Platform        `json:"platform"`
	Category       Category        `json:"category"`
	Title          string          `json:"title"`
	Price          float64         `json:"price"`
	SellerUsername string          `json:"seller_username,omitempty"`
	Score          int             `json:"score"`
	Tier           TrustTier       `json:"tier"`
	Flags          []DetectedFlag  `json:"flags"`
	Bonuses        []DetectedBonus `json:"bonuses"`
	AIOpinion      *AIOpinion      `json:"ai_opinion,omitempty"`
	ReportCount    int             `json:"report_count"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TierCount pairs a trust tier with its row count.
type TierCount struct {
	Tier  TrustTier `json:"tier"`
	Count int64     `json:"count"`
}

// FlagCount pairs a flag type with how often it fired.
type FlagCount struct {
	Type  FlagType `json:"type"`
	Count int64    `json:"count"`
}

// PlatformCount pairs a platform with its analysis count.
type PlatformCount struct {
	Platform Platform `json:"platform"`
	Count    int64    `json:"count"`
}

// Stats is the aggregate view exposed by the stats endpoint.
type Stats struct {
	TotalAnalyses  int64           `json:"total_analyses"`
	AverageScore   float64         `json:"average_score"`
	TierCounts     []TierCount     `json:"tier_counts"`
	TopFlags       []FlagCount     `json:"top_flags"`
	PlatformCounts []PlatformCount `json:"platform_counts"`
	TotalReports   int64           `json:"total_reports"`
	GeneratedAt    time.Time       `json:"generated_at"`
}
