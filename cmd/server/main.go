package main

// @title           Election Service API
// @version         1.0
// @description     REST API for running online elections: accounts, parties, candidates, voting and results.
// @host            localhost:5000
// @BasePath        /api
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "election-service/docs"
	"election-service/internal/api/routes"
	"election-service/internal/config"
	"election-service/internal/database"
	"election-service/internal/events"
	"election-service/internal/services"
	"election-service/internal/storage"
	"election-service/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting election server")

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Redis is optional: without it there is no rate limiting or results cache
	var redisService *services.RedisService
	if cfg.Redis.URI != "" {
		redisClient, err := database.NewRedisConnection(cfg.Redis)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		redisService = services.NewRedisService(redisClient)
	} else {
		slog.Warn("REDIS_URL not set, rate limiting and results cache disabled")
	}

	ctx := context.Background()
	fileStorage, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Failed to initialize file storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	publisher, err := events.New(cfg.Kafka)
	if err != nil {
		slog.Error("Failed to initialize event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize router with all dependencies
	router := routes.NewRouter(routes.Dependencies{
		Config:  cfg,
		DB:      db,
		Redis:   redisService,
		Hub:     hub,
		Storage: fileStorage,
		Events:  publisher,
	})
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop WebSocket hub
	hub.Stop()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	slog.Info("Server stopped")
}
