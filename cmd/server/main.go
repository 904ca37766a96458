package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anonto42/tuiter-stars/backend/internal/router"
	"github.com/anonto42/tuiter-stars/backend/pkg/config"
	"github.com/anonto42/tuiter-stars/backend/pkg/firebase"
	applog "github.com/anonto42/tuiter-stars/backend/pkg/log"
	"github.com/anonto42/tuiter-stars/backend/pkg/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	applog.Init(applog.Config{
		Level:       cfg.LogLevel,
		Pretty:      cfg.IsDevelopment(),
		ServiceName: "stars-api",
	})
	logger := applog.L()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.CloseDB()

	// Firebase login is optional
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if errors.Is(err, firebase.ErrNotConfigured) {
		logger.Info().Msg("firebase not configured, federated login disabled")
	} else if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize firebase")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e, logger, cfg.AllowedOrigins)
	router.SetupRoutes(e, db, cfg, firebaseApp)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
