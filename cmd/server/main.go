package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hjkwon/paymap-backend/config"
	"github.com/hjkwon/paymap-backend/internal/app/controller"
	"github.com/hjkwon/paymap-backend/internal/app/repository"
	"github.com/hjkwon/paymap-backend/internal/app/service"
	"github.com/hjkwon/paymap-backend/internal/db"
	"github.com/hjkwon/paymap-backend/internal/middleware"
	"github.com/hjkwon/paymap-backend/internal/router"
	"github.com/hjkwon/paymap-backend/internal/scheduler"
	"github.com/hjkwon/paymap-backend/internal/storage"
	"github.com/hjkwon/paymap-backend/internal/websocket"
	"github.com/hjkwon/paymap-backend/pkg/logger"
	"github.com/hjkwon/paymap-backend/pkg/redis"
	"github.com/hjkwon/paymap-backend/pkg/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting PAYMAP Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize redis (token blacklist). 실패해도 서버는 뜬다.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token blacklist disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	verificationRepo := repository.NewVerificationRepository(db.GetDB())
	commentRepo := repository.NewCommentRepository(db.GetDB())

	// WebSocket hub for live map updates
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	geocoder := util.NewKakaoGeocoder(cfg.Kakao.RESTAPIKey)
	trustService := service.NewTrustService(db.GetDB())
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	storeService := service.NewStoreService(storeRepo, userRepo, geocoder, hub)
	verificationService := service.NewVerificationService(verificationRepo, storeRepo, userRepo, trustService)
	commentService := service.NewCommentService(commentRepo, storeRepo, trustService)
	adminService := service.NewAdminService(db.GetDB(), userRepo, storeRepo)

	// Nightly trust stats reconciliation
	statsScheduler := scheduler.NewStatsScheduler(trustService)
	if err := statsScheduler.Start(); err != nil {
		logger.Error("Failed to start stats scheduler", err)
	}
	defer statsScheduler.Stop()

	// S3 storage for evidence images
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	storeController := controller.NewStoreController(storeService)
	verificationController := controller.NewVerificationController(verificationService)
	commentController := controller.NewCommentController(commentService)
	adminController := controller.NewAdminController(adminService, storeService, verificationService, commentService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		storeController,
		verificationController,
		commentController,
		adminController,
		uploadController,
		authMiddleware,
		hub,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
