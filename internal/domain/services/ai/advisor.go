// Package ai provides an optional LLM second opinion on rule-based
// listing analyses. The advisor never replaces the rule engine; its
// score is blended with the rule score and failures degrade to the
// rule result alone.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/aanewg/listingshield/internal/detection"
	"github.com/aanewg/listingshield/internal/domain/models"
	"github.com/aanewg/listingshield/pkg/logger"
)

// Blend weights: the rule engine contributes 40%, the model 60%.
const (
	ruleWeight = 0.4
	aiWeight   = 0.6
)

// Config holds advisor configuration
type Config struct {
	Provider     string // claude, openai
	ClaudeAPIKey string
	OpenAIAPIKey string
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

// Advisor calls an LLM provider for a second opinion on a listing.
type Advisor struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     Config
}

// NewAdvisor creates a new advisor
func NewAdvisor(cfg Config, log *logger.Logger) *Advisor {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Model == "" {
		if cfg.Provider == "claude" {
			cfg.Model = "claude-sonnet-4-5"
		} else {
			cfg.Model = "gpt-4-turbo"
		}
	}

	return &Advisor{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.WithComponent("ai-advisor"),
		config: cfg,
	}
}

// SecondOpinion asks the model to review a completed rule analysis.
func (a *Advisor) SecondOpinion(ctx context.Context, analysis *models.Analysis) (*models.AIOpinion, error) {
	prompt := a.buildPrompt(analysis)

	var content string
	var err error

	switch a.config.Provider {
	case "claude":
		content, err = a.callClaude(ctx, prompt)
	case "openai":
		content, err = a.callOpenAI(ctx, prompt)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", a.config.Provider)
	}
	if err != nil {
		return nil, err
	}

	opinion, err := a.parseResponse(content, analysis.Trust.Score)
	if err != nil {
		return nil, err
	}

	blended := int(math.Round(ruleWeight*float64(analysis.Trust.Score) + aiWeight*float64(opinion.Score)))
	opinion.BlendedScore = blended
	opinion.BlendedTier = detection.TierForScore(blended)
	opinion.Model = a.config.Model

	return opinion, nil
}

func (a *Advisor) buildPrompt(analysis *models.Analysis) string {
	input := analysis.Input
	var sb strings.Builder

	sb.WriteString("You are an expert fraud analyst for online marketplaces (eBay, Mercari, Facebook Marketplace, Poshmark, Depop). ")
	sb.WriteString("Your job is to evaluate whether a listing is legitimate or a potential scam, counterfeit, or fraud.\n\n")

	sb.WriteString("LISTING\n")
	sb.WriteString(fmt.Sprintf("Platform: %s\n", input.Platform))
	sb.WriteString(fmt.Sprintf("Title: %s\n", input.Title))
	if analysis.Pricing.MarketAverage != nil {
		avg := *analysis.Pricing.MarketAverage
		sb.WriteString(fmt.Sprintf("Price: $%.2f (market avg: ~$%.0f - %.0f%% vs market)\n",
			input.Price, avg, detection.DeviationPercent(input.Price, avg)))
	} else {
		sb.WriteString(fmt.Sprintf("Price: $%.2f (no market reference available)\n", input.Price))
	}
	if input.Category != "" {
		sb.WriteString(fmt.Sprintf("Category: %s\n", input.Category))
	}
	desc := input.Description
	if len(desc) > 1500 {
		desc = desc[:1500] + "...[truncated]"
	}
	if len(input.ImageURLs) > 0 {
		sb.WriteString(fmt.Sprintf("Images: %d attached\n", len(input.ImageURLs)))
	}
	sb.WriteString("Description:\n\"\"\"\n" + desc + "\n\"\"\"\n\n")

	sb.WriteString("SELLER\n")
	if input.SellerUsername != "" {
		sb.WriteString(fmt.Sprintf("Username: %s\n", input.SellerUsername))
	}
	sellerLines := sellerSummary(input.Seller)
	if sellerLines == "" {
		sellerLines = "No seller information provided."
	}
	sb.WriteString(sellerLines + "\n\n")

	sb.WriteString(fmt.Sprintf("RULE-BASED FLAGS ALREADY DETECTED (score: %d/100)\n", analysis.Trust.Score))
	if len(analysis.Flags) == 0 {
		sb.WriteString("None detected by rule engine.\n")
	} else {
		for _, f := range analysis.Flags {
			sb.WriteString(fmt.Sprintf("- [%s] %s: %s\n", strings.ToUpper(string(f.Severity)), f.Title, f.Description))
		}
	}

	sb.WriteString(`
Analyze this listing holistically. Consider what the rule engine may have missed - context, wording patterns, cultural red flags, brand authentication signals, pricing realism, and anything else suspicious or reassuring.

Respond with ONLY a JSON object in this exact shape:
{
  "ai_score": <integer 0-100, where 100 = completely trustworthy, 0 = definite scam>,
  "summary": "<2-3 sentences explaining your overall assessment in plain English>",
  "recommendation": "<one clear sentence telling the buyer what to do>",
  "scam_type": <null or one of: "counterfeit" | "fake_listing" | "price_manipulation" | "account_farming" | "bait_switch" | "off_platform_payment" | "stolen_goods">,
  "additional_flags": [
    {
      "title": "<short flag name>",
      "severity": "<critical | high | medium | low>",
      "description": "<1-2 sentences explaining the concern>",
      "confidence": <0.0-1.0>
    }
  ]
}

Only include additional_flags for concerns NOT already captured in the rule-based flags above. Return an empty array if nothing new was found.`)

	return sb.String()
}

func sellerSummary(s models.SellerInfo) string {
	var lines []string
	if s.AccountAgeDays != nil {
		lines = append(lines, fmt.Sprintf("Account age: %d days", *s.AccountAgeDays))
	}
	if s.ReviewCount != nil {
		lines = append(lines, fmt.Sprintf("Review count: %d", *s.ReviewCount))
	}
	if s.AvgRating != nil {
		lines = append(lines, fmt.Sprintf("Avg rating: %g/5", *s.AvgRating))
	}
	if s.Verified != nil && *s.Verified {
		lines = append(lines, "ID-verified by platform: yes")
	}
	return strings.Join(lines, "\n")
}

// rawOpinion mirrors the JSON shape the model is told to return.
type rawOpinion struct {
	AIScore         float64 `json:"ai_score"`
	Summary         string  `json:"summary"`
	Recommendation  string  `json:"recommendation"`
	ScamType        string  `json:"scam_type"`
	AdditionalFlags []struct {
		Title       string  `json:"title"`
		Severity    string  `json:"severity"`
		Description string  `json:"description"`
		Confidence  float64 `json:"confidence"`
	} `json:"additional_flags"`
}

// parseResponse extracts and sanitizes the model's JSON. Out-of-range
// values are clamped and the flag list is capped at six entries.
func (a *Advisor) parseResponse(content string, ruleScore int) (*models.AIOpinion, error) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx != -1 && endIdx != -1 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	var raw rawOpinion
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	score := int(math.Round(raw.AIScore))
	if raw.AIScore == 0 {
		score = ruleScore
	}
	score = clampInt(score, 0, 100)

	opinion := &models.AIOpinion{
		Score:          score,
		Summary:        truncate(raw.Summary, 600),
		Recommendation: truncate(raw.Recommendation, 300),
		ScamType:       raw.ScamType,
	}

	flags := raw.AdditionalFlags
	if len(flags) > 6 {
		flags = flags[:6]
	}
	for _, f := range flags {
		severity := models.Severity(f.Severity)
		switch severity {
		case models.SeverityCritical, models.SeverityHigh, models.SeverityMedium, models.SeverityLow:
		default:
			severity = models.SeverityMedium
		}
		confidence := f.Confidence
		if confidence == 0 {
			confidence = 0.7
		}
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
		opinion.AdditionalFlags = append(opinion.AdditionalFlags, models.AIFlag{
			Severity:    severity,
			Title:       truncate(f.Title, 100),
			Description: truncate(f.Description, 400),
			Confidence:  confidence,
		})
	}

	return opinion, nil
}

// callClaude makes a request to the Claude messages API
func (a *Advisor) callClaude(ctx context.Context, prompt string) (string, error) {
	url := "https://api.anthropic.com/v1/messages"

	reqBody := map[string]interface{}{
		"model":       a.config.Model,
		"max_tokens":  a.config.MaxTokens,
		"temperature": a.config.Temperature,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.config.ClaudeAPIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Claude API error %d: %s", resp.StatusCode, string(body))
	}

	var claudeResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", err
	}

	var content string
	for _, c := range claudeResp.Content {
		if c.Type == "text" {
			content += c.Text
		}
	}

	return content, nil
}

// callOpenAI makes a request to the OpenAI chat completions API
func (a *Advisor) callOpenAI(ctx context.Context, prompt string) (string, error) {
	url := "https://api.openai.com/v1/chat/completions"

	reqBody := map[string]interface{}{
		"model":       a.config.Model,
		"max_tokens":  a.config.MaxTokens,
		"temperature": a.config.Temperature,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.OpenAIAPIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error %d: %s", resp.StatusCode, string(body))
	}

	var openAIResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return openAIResp.Choices[0].Message.Content, nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
