package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/controller"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/ikkim/foodgram-backend/internal/render"
	"github.com/ikkim/foodgram-backend/internal/router"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/internal/validation"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/ikkim/foodgram-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Foodgram Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := validation.Setup(); err != nil {
		logger.Fatal("Failed to configure request validation", err)
	}

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations, seeding the default tags
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	images, err := storage.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", err)
	}

	// Token revocation is optional; without Redis, logout only discards the token client side
	var revoker service.TokenRevoker
	var checker middleware.RevocationChecker
	if cfg.Redis.Enabled() {
		blacklist, err := redis.NewTokenBlacklist(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize token blacklist", err)
		}
		defer blacklist.Close()
		revoker = blacklist
		checker = blacklist
	} else {
		logger.Warn("REDIS_HOST not set, token revocation disabled")
	}

	// Initialize repositories
	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	ingredientRepo := repository.NewIngredientRepository(database)
	tagRepo := repository.NewTagRepository(database)
	recipeRepo := repository.NewRecipeRepository(database)
	membershipRepo := repository.NewMembershipRepository(database)
	subscriptionRepo := repository.NewSubscriptionRepository(database)

	// Initialize services
	authService := service.NewAuthService(userRepo, revoker, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	userService := service.NewUserService(userRepo, subscriptionRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, recipeRepo)
	catalogService := service.NewCatalogService(ingredientRepo, tagRepo)
	recipeService := service.NewRecipeService(recipeRepo, ingredientRepo, tagRepo, membershipRepo, subscriptionRepo, images)
	membershipService := service.NewMembershipService(membershipRepo, recipeRepo)
	shoppingListService := service.NewShoppingListService(membershipRepo, render.Options{
		PDFFontPath: cfg.Export.PDFFontPath,
	})

	// Initialize controllers
	pagination := controller.Pagination{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService, subscriptionService, pagination)
	ingredientController := controller.NewIngredientController(catalogService)
	tagController := controller.NewTagController(catalogService)
	recipeController := controller.NewRecipeController(recipeService, membershipService, shoppingListService, pagination)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, checker)

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		ingredientController,
		tagController,
		recipeController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...", map[string]interface{}{
		"timeout": cfg.Server.ShutdownTimeout.String(),
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
		return
	}
	logger.Info("Server stopped successfully")
}
