package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanewg/listingshield/internal/api"
	"github.com/aanewg/listingshield/internal/api/handlers"
	"github.com/aanewg/listingshield/internal/config"
	"github.com/aanewg/listingshield/internal/detection"
	"github.com/aanewg/listingshield/internal/domain/services"
	"github.com/aanewg/listingshield/internal/domain/services/ai"
	"github.com/aanewg/listingshield/internal/infrastructure/cache"
	"github.com/aanewg/listingshield/internal/infrastructure/database"
	"github.com/aanewg/listingshield/internal/infrastructure/database/repository"
	"github.com/aanewg/listingshield/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting ListingShield")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Build the analysis service with whatever infrastructure is available
	engine := detection.NewEngine()
	opts := []services.AnalysisServiceOption{}

	if db != nil {
		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure database schema")
		}
		opts = append(opts, services.WithRepositories(
			repository.NewAnalysisRepository(db.Pool()),
			repository.NewReportRepository(db.Pool()),
		))
		log.Info().Msg("persistence enabled")
	} else {
		log.Warn().Msg("running without database - analyses will not persist")
	}

	if redisCache != nil {
		opts = append(opts, services.WithCache(redisCache, cfg.Analysis.CacheTTL, cfg.Analysis.StatsCacheTTL))
	}

	if cfg.AI.Enabled {
		advisor := ai.NewAdvisor(ai.Config{
			Provider:     cfg.AI.Provider,
			ClaudeAPIKey: cfg.AI.ClaudeAPIKey,
			OpenAIAPIKey: cfg.AI.OpenAIAPIKey,
			Model:        cfg.AI.Model,
			MaxTokens:    cfg.AI.MaxTokens,
			Timeout:      cfg.AI.Timeout,
		}, log)
		opts = append(opts, services.WithAdvisor(advisor))
		log.Info().Str("provider", cfg.AI.Provider).Msg("AI second opinion enabled")
	}

	analysisService := services.NewAnalysisService(engine, log, opts...)

	// Initialize handlers and router
	h := handlers.NewHandlers(handlers.Dependencies{
		Analysis: analysisService,
		Cache:    redisCache,
		DB:       db,
		Logger:   log,
		Version:  cfg.App.Version,
	})
	router := api.NewRouter(cfg, h, redisCache, log)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure connects to PostgreSQL and Redis. Both are
// optional; the service degrades to engine-only analysis without them.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
		db = nil
	}

	redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		redisCache = nil
	}

	return db, redisCache
}
