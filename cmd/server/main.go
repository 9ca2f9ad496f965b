package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/friend-circle/backend/internal/auth"
	"github.com/anonto42/friend-circle/backend/internal/repositories"
	"github.com/anonto42/friend-circle/backend/internal/router"
	"github.com/anonto42/friend-circle/backend/pkg/config"
	"github.com/anonto42/friend-circle/backend/pkg/firebase"
	"github.com/anonto42/friend-circle/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	// Initialize database connections
	db, err := config.InitDB(cfg, zl)
	if err != nil {
		return fmt.Errorf("initialize databases: %w", err)
	}
	defer db.CloseDB()

	ctx := context.Background()
	deps := router.Dependencies{Config: cfg, Logger: zl}

	switch cfg.Storage {
	case config.StorageMemory:
		store := repositories.NewMemoryStore()
		deps.Users, deps.Friendships, deps.Transactor, deps.Activity = store, store, store, store
		zl.Warn("using in-memory storage; data is lost on restart")
	default:
		if err := router.AutoMigrate(db.Postgres); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		zl.Info("PostgreSQL auto-migrations completed")
		deps.Users = repositories.NewPostgresUserRepository(db.Postgres)
		deps.Friendships = repositories.NewPostgresFriendshipRepository(db.Postgres)
		deps.Transactor = repositories.NewPostgresTransactor(db.Postgres)
	}

	if db.Mongo != nil {
		deps.Activity = repositories.NewMongoActivityRepository(db.Mongo.Database(cfg.MongoDatabase))
	}

	if db.Redis != nil {
		deps.Revocations = auth.NewRedisRevocationStore(db.Redis)
	} else {
		deps.Revocations = auth.NewMemoryRevocationStore()
		zl.Info("REDIS_URL not set; token revocations are kept in memory")
	}

	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return fmt.Errorf("initialize firebase: %w", err)
		}
		deps.Identity = firebaseApp
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	config.SetupMiddleware(e, cfg, zl)
	router.SetupRoutes(e, deps)

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("port", cfg.Port), zap.String("storage", cfg.Storage))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		zl.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
