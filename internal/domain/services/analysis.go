package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aanewg/listingshield/internal/detection"
	"github.com/aanewg/listingshield/internal/domain/models"
	"github.com/aanewg/listingshield/internal/infrastructure/cache"
	"github.com/aanewg/listingshield/internal/infrastructure/database/repository"
	"github.com/aanewg/listingshield/pkg/logger"
)

// Sentinel errors surfaced to the API layer.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// SecondOpiner is the AI advisor contract. A nil advisor disables the
// second pass entirely.
type SecondOpiner interface {
	SecondOpinion(ctx context.Context, analysis *models.Analysis) (*models.AIOpinion, error)
}

// AnalysisService runs listing analyses and manages their lifecycle.
// Repositories and cache may be nil; the service degrades to
// engine-only operation.
type AnalysisService struct {
	engine   *detection.Engine
	advisor  SecondOpiner
	analyses *repository.AnalysisRepository
	reports  *repository.ReportRepository
	cache    *cache.RedisCache
	logger   *logger.Logger

	cacheTTL      time.Duration
	statsCacheTTL time.Duration
}

// AnalysisServiceOption configures optional dependencies.
type AnalysisServiceOption func(*AnalysisService)

// WithAdvisor enables the AI second opinion pass.
func WithAdvisor(advisor SecondOpiner) AnalysisServiceOption {
	return func(s *AnalysisService) { s.advisor = advisor }
}

// WithRepositories enables persistence.
func WithRepositories(analyses *repository.AnalysisRepository, reports *repository.ReportRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.analyses = analyses
		s.reports = reports
	}
}

// WithCache enables result memoization and stats caching.
func WithCache(c *cache.RedisCache, resultTTL, statsTTL time.Duration) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.cache = c
		if resultTTL > 0 {
			s.cacheTTL = resultTTL
		}
		if statsTTL > 0 {
			s.statsCacheTTL = statsTTL
		}
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(engine *detection.Engine, log *logger.Logger, opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{
		engine:        engine,
		logger:        log.WithComponent("analysis-service"),
		cacheTTL:      15 * time.Minute,
		statsCacheTTL: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeResult is the full response for one analyze call. TrustScore
// reflects the blended score when the AI pass ran.
type AnalyzeResult struct {
	ID         uuid.UUID         `json:"id"`
	TrustScore int               `json:"trust_score"`
	TrustTier  models.TrustTier  `json:"trust_tier"`
	Analysis   models.Analysis   `json:"analysis"`
	AIOpinion  *models.AIOpinion `json:"ai_opinion,omitempty"`
	Cached     bool              `json:"cached,omitempty"`
}

// Analyze validates the input, runs the rule engine and the optional
// AI pass, persists the outcome, and memoizes the result.
func (s *AnalysisService) Analyze(ctx context.Context, input models.ListingInput) (*AnalyzeResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	fingerprint := inputFingerprint(input)
	if s.cache != nil {
		var cached AnalyzeResult
		if err := s.cache.GetCachedAnalysis(ctx, fingerprint, &cached); err == nil {
			cached.Cached = true
			s.logger.Debug().Str("fingerprint", fingerprint).Msg("analysis cache hit")
			return &cached, nil
		}
	}

	analysis := s.engine.Analyze(input)

	result := &AnalyzeResult{
		TrustScore: analysis.Trust.Score,
		TrustTier:  analysis.Trust.Tier,
		Analysis:   analysis,
	}

	if s.advisor != nil {
		opinion, err := s.advisor.SecondOpinion(ctx, &analysis)
		if err != nil {
			s.logger.Warn().Err(err).Msg("AI second opinion failed, using rule score only")
		} else {
			result.AIOpinion = opinion
			result.TrustScore = opinion.BlendedScore
			result.TrustTier = opinion.BlendedTier
		}
	}

	rec := &models.AnalysisRecord{
		Platform:       input.Platform,
		Category:       input.Category,
		Title:          input.Title,
		Price:          input.Price,
		SellerUsername: input.SellerUsername,
		Score:          result.TrustScore,
		Tier:           result.TrustTier,
		Flags:          analysis.Flags,
		Bonuses:        analysis.Bonuses,
		AIOpinion:      result.AIOpinion,
	}

	if s.analyses != nil {
		stored, err := s.analyses.Create(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("failed to persist analysis: %w", err)
		}
		result.ID = stored.ID
	} else {
		result.ID = uuid.New()
	}

	if s.cache != nil {
		if err := s.cache.CacheAnalysis(ctx, fingerprint, result, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache analysis result")
		}
		if err := s.cache.InvalidateStats(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate stats cache")
		}
	}

	s.logger.Info().
		Str("analysis_id", result.ID.String()).
		Str("platform", string(input.Platform)).
		Int("score", result.TrustScore).
		Str("tier", string(result.TrustTier)).
		Int("flags", len(analysis.Flags)).
		Msg("listing analyzed")

	return result, nil
}

// GetAnalysis retrieves a stored analysis by ID
func (s *AnalysisService) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	if s.analyses == nil {
		return nil, ErrNotFound
	}
	rec, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// ListRecentAnalyses returns the newest analyses
func (s *AnalysisService) ListRecentAnalyses(ctx context.Context, limit int) ([]*models.AnalysisRecord, error) {
	if s.analyses == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.analyses.ListRecent(ctx, limit)
}

// SubmitReport files a community report against an existing analysis.
func (s *AnalysisService) SubmitReport(ctx context.Context, analysisID uuid.UUID, reason, details string) (*models.UserReport, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if s.reports == nil || s.analyses == nil {
		return nil, fmt.Errorf("%w: reporting requires persistence", ErrInvalidInput)
	}

	existing, err := s.analyses.GetByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	report, err := s.reports.Create(ctx, &models.UserReport{
		AnalysisID: analysisID,
		Reason:     reason,
		Details:    details,
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateStats(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate stats cache")
		}
	}

	s.logger.Info().
		Str("analysis_id", analysisID.String()).
		Str("reason", reason).
		Msg("report submitted")

	return report, nil
}

// ListReportsForAnalysis returns all reports filed against one analysis.
func (s *AnalysisService) ListReportsForAnalysis(ctx context.Context, analysisID uuid.UUID) ([]*models.UserReport, error) {
	if s.reports == nil || s.analyses == nil {
		return nil, ErrNotFound
	}

	existing, err := s.analyses.GetByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	return s.reports.ListByAnalysis(ctx, analysisID)
}

// ListReports returns the newest reports across all analyses
func (s *AnalysisService) ListReports(ctx context.Context, limit int) ([]*models.UserReport, error) {
	if s.reports == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reports.ListRecent(ctx, limit)
}

// GetStats returns aggregate statistics, served from cache when fresh.
func (s *AnalysisService) GetStats(ctx context.Context) (*models.Stats, error) {
	if s.cache != nil {
		var cached models.Stats
		if err := s.cache.GetCachedStats(ctx, &cached); err == nil {
			return &cached, nil
		}
	}

	if s.analyses == nil {
		return &models.Stats{GeneratedAt: time.Now()}, nil
	}

	stats, err := s.analyses.GetStats(ctx, 10)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheStats(ctx, stats, s.statsCacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache stats")
		}
	}

	return stats, nil
}

func validateInput(input models.ListingInput) error {
	if input.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if input.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if input.Platform == "" {
		return fmt.Errorf("%w: platform is required", ErrInvalidInput)
	}
	if !models.ValidPlatforms[input.Platform] {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, input.Platform)
	}
	if input.Category != "" && !models.ValidCategories[input.Category] {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, input.Category)
	}
	return nil
}

// inputFingerprint produces a stable cache key for a listing input.
func inputFingerprint(input models.ListingInput) string {
	data, _ := json.Marshal(input)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
