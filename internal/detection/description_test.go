package detection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanewg/listingshield/internal/domain/models"
)

func TestAnalyzeDescription_ShortDescription(t *testing.T) {
	e := NewEngine()

	result, flags, _ := e.AnalyzeDescription("Dresser", "Works fine, used once.", models.CategoryHome)
	assert.Equal(t, 4, result.WordCount)
	assert.Contains(t, flagTypes(flags), models.FlagShortDescription)
	// Short deduction only, condition is stated.
	assert.Equal(t, 85, result.QualityScore)
}

func TestAnalyzeDescription_DetailedDescriptionBonus(t *testing.T) {
	e := NewEngine()

	desc := strings.Repeat("word ", 49) + "used"
	result, flags, bonuses := e.AnalyzeDescription("Dresser", desc, models.CategoryHome)
	assert.Equal(t, 50, result.WordCount)
	assert.NotContains(t, flagTypes(flags), models.FlagShortDescription)
	assert.Contains(t, bonusReasons(bonuses), "Detailed description")
}

func TestAnalyzeDescription_OffPlatformLanguage(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name string
		desc string
	}{
		{name: "payment app", desc: "brand new in box, pay via zelle only please thank you"},
		{name: "phone number", desc: "good condition overall text me at 555-123-4567 for details"},
		{name: "email address", desc: "like new condition contact seller99@example.com before buying this"},
		{name: "contact phrasing", desc: "excellent shape whatsapp me for faster replies about this one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, flags, _ := e.AnalyzeDescription("Table lamp", tt.desc, models.CategoryHome)
			assert.Contains(t, flagTypes(flags), models.FlagOffPlatformLanguage)
		})
	}
}

func TestAnalyzeDescription_NoOffPlatformFalsePositive(t *testing.T) {
	e := NewEngine()

	_, flags, _ := e.AnalyzeDescription("Table lamp",
		"Used table lamp in good condition, ships fast from a smoke free home.",
		models.CategoryHome)
	assert.NotContains(t, flagTypes(flags), models.FlagOffPlatformLanguage)
}

func TestAnalyzeDescription_KeywordStuffing(t *testing.T) {
	e := NewEngine()

	t.Run("three brand names in title", func(t *testing.T) {
		_, flags, _ := e.AnalyzeDescription(
			"Gucci Prada Dior style handbag",
			"Beautiful authentic designer style bag in excellent used condition today",
			models.CategoryHandbags)
		assert.Contains(t, flagTypes(flags), models.FlagKeywordStuffing)
	})

	t.Run("comma-separated keyword list", func(t *testing.T) {
		title := "bag, purse, tote, satchel, clutch, handbag, shoulder, crossbody, hobo"
		_, flags, _ := e.AnalyzeDescription(title,
			"Nice used bag in good condition ships fast and fits everything",
			models.CategoryHandbags)
		assert.Contains(t, flagTypes(flags), models.FlagKeywordStuffing)
	})

	t.Run("normal title passes", func(t *testing.T) {
		_, flags, _ := e.AnalyzeDescription("Coach shoulder bag",
			"Gently used Coach shoulder bag in good condition with care card",
			models.CategoryHandbags)
		assert.NotContains(t, flagTypes(flags), models.FlagKeywordStuffing)
	})
}

func TestAnalyzeDescription_VagueDescription(t *testing.T) {
	e := NewEngine()

	t.Run("no condition stated", func(t *testing.T) {
		_, flags, _ := e.AnalyzeDescription("Wallet",
			"red leather wallet for quick sale", models.CategoryOther)
		assert.Contains(t, flagTypes(flags), models.FlagVagueDescription)
	})

	t.Run("too short to judge vagueness", func(t *testing.T) {
		_, flags, _ := e.AnalyzeDescription("Wallet",
			"red leather wallet for sale", models.CategoryOther)
		assert.NotContains(t, flagTypes(flags), models.FlagVagueDescription)
		// Still flagged short.
		assert.Contains(t, flagTypes(flags), models.FlagShortDescription)
	})

	t.Run("condition term suppresses the flag", func(t *testing.T) {
		_, flags, _ := e.AnalyzeDescription("Wallet",
			"red leather wallet for quick sale, lightly used", models.CategoryOther)
		assert.NotContains(t, flagTypes(flags), models.FlagVagueDescription)
	})
}

func TestAnalyzeDescription_ConditionAndSizeBonus(t *testing.T) {
	e := NewEngine()

	_, _, bonuses := e.AnalyzeDescription("Denim jacket",
		"Like new denim jacket, size 8, worn once to a single event",
		models.CategoryClothing)
	assert.Contains(t, bonusReasons(bonuses), "Condition + measurements specified")
}

func TestAnalyzeDescription_LuxuryWithoutAuthenticityProof(t *testing.T) {
	e := NewEngine()

	t.Run("no proof mentioned", func(t *testing.T) {
		_, flags, _ := e.AnalyzeDescription("Chanel wallet on chain",
			"Gorgeous used wallet on chain in great shape ships same day",
			models.CategoryHandbags)
		assert.Contains(t, flagTypes(flags), models.FlagNoAuthenticityProof)
	})

	t.Run("proof mentioned", func(t *testing.T) {
		_, flags, _ := e.AnalyzeDescription("Chanel wallet on chain",
			"Authentic, used once, comes with receipt and original dust bag",
			models.CategoryHandbags)
		assert.NotContains(t, flagTypes(flags), models.FlagNoAuthenticityProof)
	})
}

func TestAnalyzeDescription_CategoryMismatch(t *testing.T) {
	e := NewEngine()

	t.Run("electronics listed elsewhere", func(t *testing.T) {
		_, flags, _ := e.AnalyzeDescription("iPhone 13 128GB",
			"Used iPhone 13 in good condition, battery health 88 percent",
			models.CategoryClothing)
		assert.Contains(t, flagTypes(flags), models.FlagCategoryMismatch)
	})

	t.Run("electronics in the right category", func(t *testing.T) {
		_, flags, _ := e.AnalyzeDescription("iPhone 13 128GB",
			"Used iPhone 13 in good condition, battery health 88 percent",
			models.CategoryElectronics)
		assert.NotContains(t, flagTypes(flags), models.FlagCategoryMismatch)
	})
}

func TestAnalyzeDescription_QualityScoreClampedAtZero(t *testing.T) {
	e := NewEngine()

	result, flags, _ := e.AnalyzeDescription(
		"Gucci Prada Dior Chanel handbag",
		"text me at 555-123-4567 pay zelle",
		models.CategoryHandbags)
	require.NotEmpty(t, flags)
	// Short 15 + off-platform 40 + stuffing 12 + vague 10 + no proof 8.
	assert.Equal(t, 15, result.QualityScore)
	assert.GreaterOrEqual(t, result.QualityScore, 0)
}
