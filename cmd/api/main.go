// cmd/api/main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"

	"chanalytics/internal/adapter/events"
	"chanalytics/internal/adapter/storage"
	"chanalytics/internal/config"
	"chanalytics/internal/logging"
	"chanalytics/internal/server"
	analyticsService "chanalytics/internal/service/analytics"
	"chanalytics/internal/service/pipeline"
	"chanalytics/internal/service/sentiment"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
	})

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := storage.Migrate(ctx, db); err != nil {
			logging.Fatal().Err(err).Msg("Failed to apply database schema")
		}
	}

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to NATS")
	}
	defer natsConn.Close()

	// Initialize storage adapters
	channelStore := storage.NewChannelStore(db)
	reportStore := storage.NewReportStore(db)
	channelSource := storage.NewResilientSource(channelStore, storage.BreakerConfig{
		Name:         "channel-store",
		MaxRequests:  uint32(cfg.Breaker.MaxRequests),
		Interval:     cfg.Breaker.Interval,
		Timeout:      cfg.Breaker.Timeout,
		MinRequests:  uint32(cfg.Breaker.MinRequests),
		FailureRatio: cfg.Breaker.FailureRatio,
	})

	publisher := events.NewPublisher(natsConn, cfg.Analytics.EventsTopic)

	// Initialize analytics pipeline
	pipelineCfg := pipeline.DefaultConfig()
	pipelineCfg.CalendarWeekday = cfg.Analytics.CalendarWeekday
	pipelineCfg.SimilarityThreshold = cfg.Analytics.SimilarityThreshold
	pipelineCfg.EigenvectorMaxIter = cfg.Analytics.EigenvectorMaxIter
	pipelineCfg.Forest.Trees = cfg.Analytics.ForestTrees
	pipelineCfg.Forest.Seed = cfg.Analytics.Seed
	pipelineCfg.Predictor.Seed = cfg.Analytics.Seed
	pipelineCfg.Predictor.TestFraction = cfg.Analytics.TestFraction

	runner := pipeline.NewDefault(sentiment.NewScorer(), pipelineCfg)

	service := analyticsService.NewService(
		channelSource,
		channelStore,
		runner,
		reportStore,
		publisher,
		analyticsService.ServiceConfig{
			DefaultListLimit: cfg.Analytics.DefaultListLimit,
			MaxListLimit:     cfg.Analytics.MaxListLimit,
		},
	)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		service,
		natsConn,
		events.CompletedSubject(cfg.Analytics.EventsTopic),
	)

	// Start HTTP server
	go func() {
		logging.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logging.Info().Msg("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if err := natsConn.Drain(); err != nil {
		logging.Warn().Err(err).Msg("NATS drain error")
	}

	logging.Info().Msg("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name("chanalytics"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logging.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logging.Info().Msg("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
