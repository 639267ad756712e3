package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanewg/listingshield/internal/config"
	"github.com/aanewg/listingshield/pkg/logger"
)

// PostgresDB wraps the pgx connection pool
type PostgresDB struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgres creates a new PostgreSQL connection pool
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*PostgresDB, error) {
	log = log.WithComponent("postgres")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Str("dbname", cfg.DBName).Msg("connecting to PostgreSQL")

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("connected to PostgreSQL successfully")

	return &PostgresDB{
		pool:   pool,
		logger: log,
	}, nil
}

// Pool returns the underlying connection pool
func (db *PostgresDB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close closes the connection pool
func (db *PostgresDB) Close() {
	db.logger.Info().Msg("closing PostgreSQL connection pool")
	db.pool.Close()
}

// Ping checks the database connection
func (db *PostgresDB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// EnsureSchema creates the tables the service needs if they are missing.
func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS listing_analyses (
			id              UUID PRIMARY KEY,
			platform        TEXT NOT NULL,
			category        TEXT NOT NULL,
			title           TEXT NOT NULL,
			price           DOUBLE PRECISION NOT NULL,
			seller_username TEXT NOT NULL DEFAULT '',
			score           INT NOT NULL,
			tier            TEXT NOT NULL,
			bonuses         JSONB NOT NULL DEFAULT '[]',
			ai_opinion      JSONB,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS risk_flags (
			id          UUID PRIMARY KEY,
			analysis_id UUID NOT NULL REFERENCES listing_analyses(id) ON DELETE CASCADE,
			position    INT NOT NULL DEFAULT 0,
			flag_type   TEXT NOT NULL,
			severity    TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			confidence  DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_reports (
			id          UUID PRIMARY KEY,
			analysis_id UUID NOT NULL REFERENCES listing_analyses(id) ON DELETE CASCADE,
			reason      TEXT NOT NULL,
			details     TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_listing_analyses_created_at ON listing_analyses (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_listing_analyses_tier ON listing_analyses (tier)`,
		`CREATE INDEX IF NOT EXISTS idx_risk_flags_analysis_id ON risk_flags (analysis_id)`,
		`CREATE INDEX IF NOT EXISTS idx_risk_flags_flag_type ON risk_flags (flag_type)`,
		`CREATE INDEX IF NOT EXISTS idx_user_reports_analysis_id ON user_reports (analysis_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	db.logger.Info().Msg("database schema ensured")
	return nil
}
