package router

import (
	"log"

	"github.com/anonto42/tuiter-stars/backend/internal/handlers"
	"github.com/anonto42/tuiter-stars/backend/internal/middleware"
	"github.com/anonto42/tuiter-stars/backend/internal/repositories"
	"github.com/anonto42/tuiter-stars/backend/internal/session"
	"github.com/anonto42/tuiter-stars/backend/pkg/config"
	"github.com/anonto42/tuiter-stars/backend/pkg/firebase"
	applog "github.com/anonto42/tuiter-stars/backend/pkg/log"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// SetupMiddleware configures global Echo middleware. Only allowedOrigins may
// make credentialed cross-origin requests.
func SetupMiddleware(e *echo.Echo, logger zerolog.Logger, allowedOrigins []string) {
	e.Use(applog.EchoMiddleware(logger))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// fbApp may be nil when Firebase login is not configured.
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config, fbApp *firebase.App) {
	e.GET("/health", handlers.HealthCheck(db))

	// --- Initialize Repositories ---
	starRepo := repositories.NewMongoStarRepository(db.Database)
	messageRepo := repositories.NewMongoMessageRepository(db.Database)
	userRepo := repositories.NewMongoUserRepository(db.Database)

	sessions := session.NewCookieSessions([]byte(cfg.CookieSecret), cfg.SessionName, !cfg.IsDevelopment())
	tokens := session.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	verifier := fbApp.Verifier()

	// Every route may act for the session user; none requires one.
	e.Use(middleware.Identity(middleware.IdentityConfig{
		Sessions: sessions,
		Tokens:   tokens,
		Firebase: verifier,
		Users:    userRepo,
	}))
	log.Println("Identity middleware configured.")

	authHandler := handlers.NewAuthHandler(userRepo, sessions, tokens, verifier)
	authHandler.RegisterAuthRoutes(e.Group("/api/auth"))
	log.Println("Auth routes configured.")

	root := e.Group("")

	starHandler := handlers.NewStarHandler(starRepo)
	starHandler.RegisterStarRoutes(root)
	log.Println("Star routes configured.")

	messageHandler := handlers.NewMessageHandler(messageRepo)
	messageHandler.RegisterMessageRoutes(root)
	log.Println("Message routes configured.")

	log.Println("All routes configured.")
}
