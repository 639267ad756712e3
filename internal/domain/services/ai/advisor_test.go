package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanewg/listingshield/internal/domain/models"
	"github.com/aanewg/listingshield/pkg/logger"
)

func newTestAdvisor(t *testing.T) *Advisor {
	t.Helper()
	return NewAdvisor(Config{Provider: "claude"}, logger.NewDefault())
}

func TestNewAdvisorDefaults(t *testing.T) {
	a := NewAdvisor(Config{Provider: "claude"}, logger.NewDefault())
	assert.Equal(t, "claude-sonnet-4-5", a.config.Model)
	assert.Equal(t, 1024, a.config.MaxTokens)

	a = NewAdvisor(Config{Provider: "openai"}, logger.NewDefault())
	assert.Equal(t, "gpt-4-turbo", a.config.Model)
}

func TestParseResponsePlainJSON(t *testing.T) {
	a := newTestAdvisor(t)

	opinion, err := a.parseResponse(`{
		"ai_score": 42,
		"summary": "Suspicious pricing combined with a brand-new account.",
		"recommendation": "Ask for a receipt before buying.",
		"scam_type": "counterfeit",
		"additional_flags": []
	}`, 70)
	require.NoError(t, err)

	assert.Equal(t, 42, opinion.Score)
	assert.Equal(t, "counterfeit", opinion.ScamType)
	assert.Empty(t, opinion.AdditionalFlags)
}

func TestParseResponseStripsCodeFences(t *testing.T) {
	a := newTestAdvisor(t)

	fenced := "```json\n{\"ai_score\": 80, \"summary\": \"Looks fine.\", \"recommendation\": \"Proceed.\", \"scam_type\": null, \"additional_flags\": []}\n```"
	opinion, err := a.parseResponse(fenced, 70)
	require.NoError(t, err)
	assert.Equal(t, 80, opinion.Score)
}

func TestParseResponseExtractsEmbeddedObject(t *testing.T) {
	a := newTestAdvisor(t)

	content := "Here is my assessment:\n{\"ai_score\": 25, \"summary\": \"Likely scam.\", \"recommendation\": \"Avoid.\", \"additional_flags\": []}\nLet me know if you need more."
	opinion, err := a.parseResponse(content, 70)
	require.NoError(t, err)
	assert.Equal(t, 25, opinion.Score)
}

func TestParseResponseZeroScoreFallsBackToRuleScore(t *testing.T) {
	a := newTestAdvisor(t)

	opinion, err := a.parseResponse(`{"summary": "No score given.", "additional_flags": []}`, 63)
	require.NoError(t, err)
	assert.Equal(t, 63, opinion.Score)
}

func TestParseResponseClampsScore(t *testing.T) {
	a := newTestAdvisor(t)

	opinion, err := a.parseResponse(`{"ai_score": 250, "additional_flags": []}`, 50)
	require.NoError(t, err)
	assert.Equal(t, 100, opinion.Score)

	opinion, err = a.parseResponse(`{"ai_score": -10, "additional_flags": []}`, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, opinion.Score)
}

func TestParseResponseSanitizesFlags(t *testing.T) {
	a := newTestAdvisor(t)

	opinion, err := a.parseResponse(`{
		"ai_score": 40,
		"additional_flags": [
			{"title": "Stock photos", "severity": "nonsense", "description": "Images look reused.", "confidence": 3.5},
			{"title": "Urgency language", "severity": "high", "description": "Pressure to buy now.", "confidence": 0}
		]
	}`, 70)
	require.NoError(t, err)
	require.Len(t, opinion.AdditionalFlags, 2)

	assert.Equal(t, models.SeverityMedium, opinion.AdditionalFlags[0].Severity)
	assert.Equal(t, 1.0, opinion.AdditionalFlags[0].Confidence)
	assert.Equal(t, models.SeverityHigh, opinion.AdditionalFlags[1].Severity)
	assert.Equal(t, 0.7, opinion.AdditionalFlags[1].Confidence)
}

func TestParseResponseCapsFlagCount(t *testing.T) {
	a := newTestAdvisor(t)

	var flags []string
	for i := 0; i < 10; i++ {
		flags = append(flags, `{"title": "f", "severity": "low", "description": "d", "confidence": 0.5}`)
	}
	content := `{"ai_score": 40, "additional_flags": [` + strings.Join(flags, ",") + `]}`

	opinion, err := a.parseResponse(content, 70)
	require.NoError(t, err)
	assert.Len(t, opinion.AdditionalFlags, 6)
}

func TestParseResponseTruncatesLongText(t *testing.T) {
	a := newTestAdvisor(t)

	long := strings.Repeat("a", 1000)
	opinion, err := a.parseResponse(`{"ai_score": 40, "summary": "`+long+`", "recommendation": "`+long+`", "additional_flags": []}`, 70)
	require.NoError(t, err)
	assert.Len(t, opinion.Summary, 600)
	assert.Len(t, opinion.Recommendation, 300)
}

func TestParseResponseRejectsGarbage(t *testing.T) {
	a := newTestAdvisor(t)

	_, err := a.parseResponse("I cannot analyze this listing.", 70)
	assert.Error(t, err)
}

func TestBuildPromptIncludesListingAndFlags(t *testing.T) {
	a := newTestAdvisor(t)

	avg := 465.0
	age := 3
	analysis := &models.Analysis{
		Input: models.ListingInput{
			Title:          "iPhone 15 Pro Max",
			Description:    "Brand new sealed.",
			Price:          150,
			Platform:       models.PlatformMercari,
			Category:       models.CategoryElectronics,
			SellerUsername: "quickdeals_99",
			ImageURLs:      []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
			Seller:         models.SellerInfo{AccountAgeDays: &age},
		},
		Pricing: models.PricingAnalysis{MarketAverage: &avg},
		Flags: []models.DetectedFlag{
			{Type: models.FlagPriceWayBelowMarket, Severity: models.SeverityCritical, Title: "Price far below market", Description: "87% below average"},
		},
		Trust: models.TrustScore{Score: 55},
	}

	prompt := a.buildPrompt(analysis)
	assert.Contains(t, prompt, "iPhone 15 Pro Max")
	assert.Contains(t, prompt, "Username: quickdeals_99")
	assert.Contains(t, prompt, "Images: 2 attached")
	assert.Contains(t, prompt, "Account age: 3 days")
	assert.Contains(t, prompt, "[CRITICAL] Price far below market")
	assert.Contains(t, prompt, "score: 55/100")
	assert.Contains(t, prompt, `"ai_score"`)
}
