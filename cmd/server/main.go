package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/fotofolio/backend/internal/router"
	"github.com/anonto42/fotofolio/backend/internal/services"
	"github.com/anonto42/fotofolio/backend/internal/unsplash"
	"github.com/anonto42/fotofolio/backend/pkg/config"
	"github.com/anonto42/fotofolio/backend/pkg/firebase"
	"github.com/anonto42/fotofolio/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.Close()

	stores, err := router.NewStores(db.Postgres, db.MongoDB)
	if err != nil {
		zl.Fatal("failed to migrate models", zap.Error(err))
	}

	opts := router.Options{
		JWTSecret: cfg.JWTSecret,
		JWTExpiry: cfg.JWTExpiry,
		Logger:    zl,
	}

	if cfg.UnsplashAccessKey != "" {
		var provider unsplash.Provider = unsplash.NewClient(cfg.UnsplashBaseURL, cfg.UnsplashAccessKey)
		if db.Redis != nil {
			provider = unsplash.NewCachedProvider(provider, db.Redis, cfg.SearchCacheTTL, zl)
		}
		opts.Provider = provider
	} else {
		zl.Warn("UNSPLASH_ACCESS_KEY not set, external photos disabled")
	}

	authClient, err := firebase.InitAuth(ctx, cfg.FirebaseCredentialsPath, zl)
	if err != nil {
		zl.Fatal("failed to initialize firebase", zap.Error(err))
	}
	if authClient != nil {
		var verifier services.TokenVerifier = authClient
		opts.Verifier = verifier
	}

	e := echo.New()
	e.HideBanner = true
	config.SetupMiddleware(e, zl, cfg.RequestTimeout)
	router.SetupRoutes(e, stores, opts)

	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
