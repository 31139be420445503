package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/blueprintmfg/settings-portal/internal/api"
	"github.com/blueprintmfg/settings-portal/internal/core/session"
	"github.com/blueprintmfg/settings-portal/internal/core/store"
	"github.com/blueprintmfg/settings-portal/internal/infrastructure/config"
	mongodb "github.com/blueprintmfg/settings-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/blueprintmfg/settings-portal/internal/infrastructure/db/redis"
	"github.com/blueprintmfg/settings-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if present; real environments set variables directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	// --- Backend store ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Local session cache ---
	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	// --- Core wiring ---
	gateway := mongodb.NewGateway(db)
	authService := mongodb.NewAuthService(db, cfg.JWTSecret, cfg.Auth.TokenTTL, logger.Component("auth"))
	sessionCache := redisdb.NewSessionCache(redisClient)

	st := store.New(gateway, logger.Component("store"), store.Options{
		Timeout:      cfg.Fetch.Timeout,
		Retries:      cfg.Fetch.Retries,
		InitialDelay: cfg.Fetch.InitialDelay,
	})

	reconciler := session.New(authService, gateway.Profiles, sessionCache, st, logger.Component("session"), session.Options{
		SignOutTimeout:  cfg.Auth.SignOutTimeout,
		ShortSessionTTL: cfg.Auth.ShortSessionTTL,
	})
	reconciler.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Mongo:      db,
		Redis:      redisClient,
		Gateway:    gateway,
		Auth:       authService,
		Store:      st,
		Reconciler: reconciler,
		Cache:      sessionCache,
		JWTSecret:  cfg.JWTSecret,
		Log:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
