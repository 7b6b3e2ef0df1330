package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pawfectmatch/platform-backend/broadcast"
	"github.com/pawfectmatch/platform-backend/client"
	"github.com/pawfectmatch/platform-backend/config"
	"github.com/pawfectmatch/platform-backend/consumer"
	"github.com/pawfectmatch/platform-backend/database"
	"github.com/pawfectmatch/platform-backend/handlers"
	"github.com/pawfectmatch/platform-backend/middleware"
	"github.com/pawfectmatch/platform-backend/redis"
	"github.com/pawfectmatch/platform-backend/services"
)

func main() {
	// Load .env file if it exists (optional - fails silently if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	enums, err := config.LoadEnums(cfg.EnumConfigPath)
	if err != nil {
		slog.Error("Failed to load enum configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Redis stream transport is optional; without it, admin events and
	// config broadcasts stay local to this instance.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = redis.NewClient(&redis.Config{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	} else {
		slog.Info("REDIS_ADDR not set, admin event stream disabled")
	}

	caster := broadcast.NewBroadcaster()
	moderationClient := client.NewModerationClient(cfg.ModerationServiceURL, client.Options{})

	notificationService := services.NewNotificationService(db, enums)
	followService := services.NewFollowService(db, notificationService)
	adminSyncService := services.NewAdminSyncService(db, redisClient, caster, enums)
	configService := services.NewConfigService(db, adminSyncService, caster)
	verificationService := services.NewVerificationService(db, adminSyncService, notificationService, moderationClient, enums)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if redisClient != nil {
		streamConsumer, err := consumer.NewStreamConsumer(redisClient, consumer.NewBroadcastProcessor(caster))
		if err != nil {
			slog.Error("Failed to initialize stream consumer", "error", err)
			os.Exit(1)
		}
		go streamConsumer.Start(ctx)
	}

	auth := middleware.NewJWTAuthMiddleware(cfg.JWTSecret)
	router := handlers.NewRouter(handlers.RouterDeps{
		Follows:       handlers.NewFollowHandler(followService),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Verifications: handlers.NewVerificationHandler(verificationService),
		Admin:         handlers.NewAdminHandler(verificationService, configService, adminSyncService),
		Auth:          auth,
		RateLimit:     middleware.RateLimitMiddleware(cfg.RateLimitMax, cfg.RateLimitWindow),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		slog.Info("Platform backend starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			cancel()
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	slog.Info("Server gracefully stopped")
}
