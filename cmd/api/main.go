package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/collabworks/portal-api/internal/api"
	"github.com/collabworks/portal-api/internal/infrastructure/config"
	mongodb "github.com/collabworks/portal-api/internal/infrastructure/db/mongo"
	redisdb "github.com/collabworks/portal-api/internal/infrastructure/db/redis"
	"github.com/collabworks/portal-api/internal/infrastructure/queue"
	"github.com/collabworks/portal-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		errLog := logger.Init(logger.Options{Level: "error"})
		errLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "portal-api",
		Pretty:  cfg.Env == "development",
	})

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure mongodb indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Activity emitter worker pool ---
	activityRepo := mongodb.NewActivityRepository(db)
	emitter := queue.NewEmitter(cfg.ActivityWorkers, activityRepo, log)
	emitter.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.RouterConfig{
		DB:        db,
		Redis:     rdb,
		Emitter:   emitter,
		JWTSecret: cfg.JWTSecret,
		InviteTTL: cfg.InviteTTL,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// ensureIndexes creates the indexes every collection relies on. Index
// creation is idempotent, so this runs on every boot.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexed := []interface {
		EnsureIndexes(ctx context.Context) error
	}{
		mongodb.NewMembershipRepository(db),
		mongodb.NewInvitationRepository(db),
		mongodb.NewInviteLinkRepository(db),
		mongodb.NewActivityRepository(db),
		mongodb.NewDocumentRepository(db),
		mongodb.NewAuthRepository(db),
	}
	for _, r := range indexed {
		if err := r.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
