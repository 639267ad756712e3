package detection

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aanewg/listingshield/internal/domain/models"
)

var (
	// Off-platform payment or contact info: payment apps, "text me"
	// style phrasing, email addresses, US phone numbers.
	offPlatformPattern = regexp.MustCompile(
		`(?i)\b(zelle|venmo|cash\s*app|cashapp|paypal|wire\s*transfer|money\s*order|western\s*union|text\s*me|call\s*me|email\s*me|dm\s*me|message\s*me outside|whatsapp)\b|(\b[\w.+]+@[\w-]+\.\w{2,}\b)|(\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b)`)

	sizePattern = regexp.MustCompile(
		`(?i)\b(size\s*\d+|xs|sm|med|small|medium|large|xl|xxl|\d+"\s*(x|×)\s*\d+"|\d+\s*oz|\d+\s*ml)\b`)

	titleSplitPattern = regexp.MustCompile(`[\s,/|]+`)
)

var luxuryKeywords = []string{
	"louis vuitton", "lv", "chanel", "gucci", "prada", "hermes", "hermès",
	"balenciaga", "dior", "fendi", "burberry", "versace", "bottega",
	"goyard", "celine", "givenchy", "saint laurent", "ysl",
}

var authenticityTerms = []string{
	"authentic", "genuine", "real", "original", "receipt", "proof",
	"serial number", "dust bag", "certificate", "hologram", "date code",
	"authentication", "verified",
}

var conditionTerms = []string{
	"new", "used", "like new", "lightly used", "gently used", "nwt",
	"nwob", "bnib", "good condition", "fair condition", "excellent",
	"pre-owned", "worn once",
}

var electronicsKeywords = []string{"iphone", "macbook", "airpod", "galaxy", "ps5", "xbox"}

// AnalyzeDescription runs the textual red-flag checks over the title
// and description. The quality score starts at 100 and each firing
// check subtracts a fixed amount.
func (e *Engine) AnalyzeDescription(title, description string, category models.Category) (models.DescriptionAnalysis, []models.DetectedFlag, []models.DetectedBonus) {
	var (
		flags   []models.DetectedFlag
		bonuses []models.DetectedBonus
	)

	fullText := strings.ToLower(title + " " + description)
	wordCount := len(strings.Fields(description))
	qualityScore := 100

	// Short description
	if wordCount < 20 {
		flags = append(flags, models.DetectedFlag{
			Type:     models.FlagShortDescription,
			Severity: models.SeverityLow,
			Title:    "Very Short Description",
			Description: fmt.Sprintf(
				"The listing description is only %d word(s). Legitimate sellers typically provide detailed information about condition, size, and any flaws.",
				wordCount),
			Confidence: 0.8,
		})
		qualityScore -= 15
	} else if wordCount >= 50 {
		bonuses = append(bonuses, models.DetectedBonus{Reason: "Detailed description", Points: 3})
		qualityScore += 5
	}

	// Off-platform payment language
	if offPlatformPattern.MatchString(fullText) {
		flags = append(flags, models.DetectedFlag{
			Type:     models.FlagOffPlatformLanguage,
			Severity: models.SeverityCritical,
			Title:    "Off-Platform Payment Language Detected",
			Description: "The listing contains references to off-platform payment methods or contact info (Zelle, Venmo, phone numbers, email addresses, etc.). " +
				"Moving transactions outside the marketplace removes all buyer protections - this is a major scam indicator.",
			Confidence: 0.95,
		})
		qualityScore -= 40
	}

	// Keyword stuffing in title
	var titleWords []string
	for _, w := range titleSplitPattern.Split(title, -1) {
		if len(w) > 2 {
			titleWords = append(titleWords, w)
		}
	}
	brandWords := 0
	for _, w := range titleWords {
		lw := strings.ToLower(w)
		for _, brand := range luxuryKeywords {
			if strings.Contains(brand, lw) {
				brandWords++
				break
			}
		}
	}
	if len(strings.Split(title, ",")) > 8 || len(titleWords) > 50 || brandWords >= 3 {
		flags = append(flags, models.DetectedFlag{
			Type:     models.FlagKeywordStuffing,
			Severity: models.SeverityMedium,
			Title:    "Keyword Stuffing in Title",
			Description: "The listing title appears to contain an excessive number of brand names or keywords. " +
				"This is a common tactic to game search algorithms and can indicate the seller is not being straightforward about the item.",
			Confidence: 0.7,
		})
		qualityScore -= 12
	}

	// Condition and measurements
	hasCondition := containsAny(fullText, conditionTerms)
	hasSize := sizePattern.MatchString(fullText)

	if !hasCondition && wordCount > 5 {
		flags = append(flags, models.DetectedFlag{
			Type:     models.FlagVagueDescription,
			Severity: models.SeverityMedium,
			Title:    "Item Condition Not Stated",
			Description: "The listing does not specify the condition of the item (new, used, like new, etc.). " +
				"Reputable sellers always disclose condition so buyers know what to expect.",
			Confidence: 0.72,
		})
		qualityScore -= 10
	}

	if hasCondition && hasSize {
		bonuses = append(bonuses, models.DetectedBonus{Reason: "Condition + measurements specified", Points: 3})
	}

	// Luxury items without authenticity proof
	if containsAny(fullText, luxuryKeywords) && !containsAny(fullText, authenticityTerms) {
		flags = append(flags, models.DetectedFlag{
			Type:     models.FlagNoAuthenticityProof,
			Severity: models.SeverityLow,
			Title:    "No Authenticity Proof Mentioned",
			Description: "This appears to be a luxury / designer item but the listing makes no mention of authenticity proof, receipts, date codes, or certificates. " +
				"Authentic resellers typically provide these details.",
			Confidence: 0.65,
		})
		qualityScore -= 8
	}

	// Category mismatch
	if category != "" && category != models.CategoryElectronics && containsAny(fullText, electronicsKeywords) {
		flags = append(flags, models.DetectedFlag{
			Type:     models.FlagCategoryMismatch,
			Severity: models.SeverityLow,
			Title:    "Category May Be Mismatched",
			Description: "The item appears to be an electronic product but is listed under a different category. " +
				"This could be accidental or an attempt to avoid detection.",
			Confidence: 0.5,
		})
		qualityScore -= 5
	}

	if qualityScore < 0 {
		qualityScore = 0
	}
	if qualityScore > 100 {
		qualityScore = 100
	}

	return models.DescriptionAnalysis{WordCount: wordCount, QualityScore: qualityScore}, flags, bonuses
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
