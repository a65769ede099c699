package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-profile-backend/config"
	v1 "go-profile-backend/internal/delivery/http/v1"
	"go-profile-backend/internal/repository/postgres"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/pkg/auth"
	"go-profile-backend/pkg/database"
	"go-profile-backend/pkg/email"
	"go-profile-backend/pkg/logger"
	"go-profile-backend/pkg/redis"
	"go-profile-backend/pkg/storage"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting profile backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.InitSchema(context.Background(), dbPool); err != nil {
		logger.Log.Error("Failed to initialize schema", "error", err)
		os.Exit(1)
	}

	// 4. Setup Redis (optional; rate limiting falls back to memory)
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		}
	}

	// 5. Setup File Storage
	var store storage.Store
	if cfg.S3Bucket != "" {
		store, err = storage.NewS3Store(context.Background(), storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
		})
	} else {
		store, err = storage.NewLocalStore(cfg.UploadDir, cfg.PublicUploadURL)
	}
	if err != nil {
		logger.Log.Error("Failed to set up file storage", "error", err)
		os.Exit(1)
	}

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - reset emails will not be delivered")
	}

	// 7. Setup Repositories and UseCases
	accountRepo := postgres.NewAccountRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	resetTTL := time.Duration(cfg.ResetTokenTTLMinutes) * time.Minute

	authUC := usecase.NewAuthUsecase(accountRepo, tokenManager, emailService, resetTTL)
	profileUC := usecase.NewProfileUsecase(profileRepo)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		ProfileUC:    profileUC,
		TokenManager: tokenManager,
		Store:        store,
		Config:       cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
