package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanewg/listingshield/internal/domain/models"
)

// AnalysisRepository persists listing analyses and their flags.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

// Create inserts an analysis record together with its flags in one
// transaction.
func (r *AnalysisRepository) Create(ctx context.Context, rec *models.AnalysisRecord) (*models.AnalysisRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()

	bonuses, err := json.Marshal(rec.Bonuses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bonuses: %w", err)
	}

	var aiOpinion []byte
	if rec.AIOpinion != nil {
		aiOpinion, err = json.Marshal(rec.AIOpinion)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal ai opinion: %w", err)
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO listing_analyses (
			id, platform, category, title, price, seller_username, score, tier, bonuses, ai_opinion, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.Exec(ctx, query,
		rec.ID, rec.Platform, rec.Category, rec.Title, rec.Price, rec.SellerUsername,
		rec.Score, rec.Tier, bonuses, aiOpinion, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis: %w", err)
	}

	// Slice index becomes the position column so reads reproduce the
	// analyzer order (price, seller, description).
	for i, f := range rec.Flags {
		_, err = tx.Exec(ctx, `
			INSERT INTO risk_flags (id, analysis_id, position, flag_type, severity, title, description, confidence)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), rec.ID, i, f.Type, f.Severity, f.Title, f.Description, f.Confidence,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create risk flag: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit analysis: %w", err)
	}

	return rec, nil
}

// GetByID retrieves an analysis with its flags and report count.
// Returns nil when no row exists.
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	query := `
		SELECT a.id, a.platform, a.category, a.title, a.price, a.seller_username,
			   a.score, a.tier, a.bonuses, a.ai_opinion, a.created_at,
			   (SELECT COUNT(*) FROM user_reports r WHERE r.analysis_id = a.id)
		FROM listing_analyses a
		WHERE a.id = $1`

	rec := &models.AnalysisRecord{}
	var bonuses, aiOpinion []byte

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Platform, &rec.Category, &rec.Title, &rec.Price, &rec.SellerUsername,
		&rec.Score, &rec.Tier, &bonuses, &aiOpinion, &rec.CreatedAt,
		&rec.ReportCount,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(bonuses, &rec.Bonuses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bonuses: %w", err)
	}
	if len(aiOpinion) > 0 {
		rec.AIOpinion = &models.AIOpinion{}
		if err := json.Unmarshal(aiOpinion, rec.AIOpinion); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ai opinion: %w", err)
		}
	}

	flags, err := r.flagsForAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Flags = flags

	return rec, nil
}

// ListRecent returns the most recent analyses, newest first.
func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]*models.AnalysisRecord, error) {
	query := `
		SELECT a.id, a.platform, a.category, a.title, a.price, a.seller_username,
			   a.score, a.tier, a.bonuses, a.created_at,
			   (SELECT COUNT(*) FROM user_reports r WHERE r.analysis_id = a.id)
		FROM listing_analyses a
		ORDER BY a.created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []*models.AnalysisRecord
	for rows.Next() {
		rec := &models.AnalysisRecord{}
		var bonuses []byte
		err := rows.Scan(
			&rec.ID, &rec.Platform, &rec.Category, &rec.Title, &rec.Price, &rec.SellerUsername,
			&rec.Score, &rec.Tier, &bonuses, &rec.CreatedAt, &rec.ReportCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		if err := json.Unmarshal(bonuses, &rec.Bonuses); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bonuses: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// GetStats aggregates analysis counts, average score, tier and platform
// breakdowns, and the most frequent flags.
func (r *AnalysisRepository) GetStats(ctx context.Context, topFlags int) (*models.Stats, error) {
	stats := &models.Stats{GeneratedAt: time.Now()}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(score), 0)
		FROM listing_analyses
	`).Scan(&stats.TotalAnalyses, &stats.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis counts: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT tier, COUNT(*)
		FROM listing_analyses
		GROUP BY tier
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get tier counts: %w", err)
	}
	for rows.Next() {
		var tc models.TierCount
		if err := rows.Scan(&tc.Tier, &tc.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.TierCounts = append(stats.TierCounts, tc)
	}
	rows.Close()

	rows, err = r.pool.Query(ctx, `
		SELECT flag_type, COUNT(*)
		FROM risk_flags
		GROUP BY flag_type
		ORDER BY COUNT(*) DESC
		LIMIT $1
	`, topFlags)
	if err != nil {
		return nil, fmt.Errorf("failed to get flag counts: %w", err)
	}
	for rows.Next() {
		var fc models.FlagCount
		if err := rows.Scan(&fc.Type, &fc.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.TopFlags = append(stats.TopFlags, fc)
	}
	rows.Close()

	rows, err = r.pool.Query(ctx, `
		SELECT platform, COUNT(*)
		FROM listing_analyses
		GROUP BY platform
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform counts: %w", err)
	}
	for rows.Next() {
		var pc models.PlatformCount
		if err := rows.Scan(&pc.Platform, &pc.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.PlatformCounts = append(stats.PlatformCounts, pc)
	}
	rows.Close()

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_reports`).Scan(&stats.TotalReports)
	if err != nil {
		return nil, fmt.Errorf("failed to get report count: %w", err)
	}

	return stats, nil
}

func (r *AnalysisRepository) flagsForAnalysis(ctx context.Context, analysisID uuid.UUID) ([]models.DetectedFlag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT flag_type, severity, title, description, confidence
		FROM risk_flags
		WHERE analysis_id = $1
		ORDER BY position
	`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to list risk flags: %w", err)
	}
	defer rows.Close()

	var flags []models.DetectedFlag
	for rows.Next() {
		var f models.DetectedFlag
		if err := rows.Scan(&f.Type, &f.Severity, &f.Title, &f.Description, &f.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan risk flag: %w", err)
		}
		flags = append(flags, f)
	}

	return flags, nil
}
