package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/feastly/backend/config"
	"github.com/feastly/backend/internal/api"
	"github.com/feastly/backend/internal/database"
	"github.com/feastly/backend/internal/middleware"
	"github.com/feastly/backend/internal/router"
	"github.com/feastly/backend/internal/server"
	"github.com/feastly/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("cannot connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// Rate limiting is optional: without Redis the API still serves.
	var createLimiter, toggleLimiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
	} else {
		createLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
		toggleLimiter = middleware.NewToggleRateLimiter(redisClient)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db, logger)
	profileService := service.NewProfileService(db)

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeHandler(recipeService, authService, createLimiter, toggleLimiter)
	profileHandler := api.NewProfileHandler(profileService, recipeService, authService)

	// Image uploads need S3 credentials; skip the route when absent.
	var imageHandler *api.ImageHandler
	if s3Cfg, err := config.NewS3Config(context.Background(), cfg); err != nil {
		logger.Warn("s3 unavailable, image uploads disabled", zap.Error(err))
	} else {
		// One-time on fresh buckets; image URLs are served directly.
		if os.Getenv("S3_APPLY_BUCKET_POLICY") == "true" {
			if err := s3Cfg.SetupBucketPolicy(context.Background()); err != nil {
				logger.Warn("failed to apply bucket policy", zap.Error(err))
			}
		}
		imageHandler = api.NewImageHandler(service.NewImageService(s3Cfg, logger), authService)
	}

	engine := router.SetupRouter(db, authHandler, recipeHandler, profileHandler, imageHandler, allowedOrigins())
	srv := server.New(engine, cfg.ServerHost+":"+cfg.ServerPort, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func allowedOrigins() []string {
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		return strings.Split(v, ",")
	}
	return []string{"http://localhost:5173"}
}
