package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/config"
	"github.com/cuisinecraft/engine/internal/database"
	"github.com/cuisinecraft/engine/internal/handlers"
	"github.com/cuisinecraft/engine/internal/middleware"
	"github.com/cuisinecraft/engine/internal/services"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	svcs, err := services.New(cfg, app.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = svcs

	app.handlers, err = handlers.New(app.logger, svcs)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if err := a.services.Events.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing event publisher")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))

	// Health check endpoint (no auth required)
	router.GET("/health", a.handlers.Health.Check)

	// Prometheus metrics endpoint (no auth required)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/auth/token", a.handlers.Auth.Token)

		// Read paths work anonymously; a valid token personalizes them.
		optional := api.Group("")
		optional.Use(middleware.OptionalAuth(a.services.Auth, a.logger))
		{
			optional.GET("/recipes", a.handlers.Recipe.List)
			optional.GET("/recipes/search", a.handlers.Recipe.Search)
			optional.GET("/recipes/:id", a.handlers.Recipe.Get)
			optional.GET("/recipes/:id/similar", a.handlers.Recipe.Similar)
			optional.GET("/recommendations", a.handlers.Recommendation.Get)
			optional.GET("/ingredients/search", a.handlers.Ingredient.Search)
			optional.GET("/ingredients/almost-match", a.handlers.Ingredient.AlmostMatch)
			optional.GET("/ingredients/substitutions", a.handlers.Ingredient.Substitutions)
		}

		// Mutations require a signed-in user.
		authed := api.Group("")
		authed.Use(middleware.Auth(a.services.Auth, a.logger))
		{
			authed.POST("/recipes", a.handlers.Recipe.Ingest)
			authed.POST("/recipes/:id/favorite", a.handlers.Recipe.ToggleFavorite)
			authed.POST("/recipes/:id/cooked", a.handlers.Recipe.Cooked)
			authed.GET("/preferences", a.handlers.Preference.Get)
			authed.POST("/preferences", a.handlers.Preference.Update)
			authed.GET("/preferences/favorite-ingredients", a.handlers.Preference.FavoriteIngredients)
		}
	}

	a.router = router
}
