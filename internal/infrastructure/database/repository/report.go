package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanewg/listingshield/internal/domain/models"
)

// ReportRepository persists community reports against analyses.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create inserts a user report
func (r *ReportRepository) Create(ctx context.Context, report *models.UserReport) (*models.UserReport, error) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now()

	query := `
		INSERT INTO user_reports (id, analysis_id, reason, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		report.ID, report.AnalysisID, report.Reason, report.Details, report.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return report, nil
}

// ListByAnalysis retrieves reports for one analysis, newest first
func (r *ReportRepository) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]*models.UserReport, error) {
	query := `
		SELECT id, analysis_id, reason, details, created_at
		FROM user_reports
		WHERE analysis_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.UserReport
	for rows.Next() {
		report := &models.UserReport{}
		if err := rows.Scan(&report.ID, &report.AnalysisID, &report.Reason, &report.Details, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// ListRecent retrieves the most recent reports across all analyses
func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]*models.UserReport, error) {
	query := `
		SELECT id, analysis_id, reason, details, created_at
		FROM user_reports
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.UserReport
	for rows.Next() {
		report := &models.UserReport{}
		if err := rows.Scan(&report.ID, &report.AnalysisID, &report.Reason, &report.Details, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}
