package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MhisterKhing6/shortly/internal/api"
	"github.com/MhisterKhing6/shortly/internal/api/service"
	"github.com/MhisterKhing6/shortly/internal/auth"
	"github.com/MhisterKhing6/shortly/internal/config"
	"github.com/MhisterKhing6/shortly/internal/data/mongo"
	"github.com/MhisterKhing6/shortly/internal/logger"
	"github.com/MhisterKhing6/shortly/internal/platform/messaging/producers"
	"github.com/MhisterKhing6/shortly/internal/platform/notification"
	"github.com/MhisterKhing6/shortly/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize MongoDB with app context
	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Redis for the stats cache; a failure here only disables
	// caching, it never takes the engine down
	var statsCache service.StatsCache
	redisClient, err := persistence.NewRedisClient(appCtx, log, &cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, stats caching disabled", "error", err)
	} else {
		statsCache = service.NewRedisStatsCache(log, redisClient, cfg.Redis.StatsTTL)
	}

	// Initialize Kafka producer for assignment lifecycle events
	eventProducer, err := producers.NewAssignmentEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize the SMS dispatch pool
	smsSender := notification.NewSMSSender(log, &cfg.Notification)
	dispatcher, err := notification.NewPoolDispatcher(log, smsSender, notification.PoolConfig{Size: cfg.WorkerPool.Size})
	if err != nil {
		log.Error("Failed to initialize notification dispatcher", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	db := mongoDB.Database()
	assignmentRepo := mongo.NewAssignmentRepository(log, db)
	reconciliationRepo := mongo.NewReconciliationRepository(log, db)
	parcelStore := mongo.NewParcelStore(log, db)
	riderLookup := mongo.NewRiderLookup(log, db)
	reasonRepo := mongo.NewReasonRepository(log, db)

	// Initialize services
	tokens := auth.NewTokenService(&cfg.JWT)
	assignmentService := service.NewAssignmentService(log, assignmentRepo, parcelStore, riderLookup, reasonRepo, dispatcher, eventProducer)
	reconciliationService := service.NewReconciliationService(log, reconciliationRepo, assignmentRepo, parcelStore, statsCache, eventProducer)

	// Initialize REST server
	server := api.NewServer(log, cfg, tokens, assignmentService, reconciliationService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Drain the dispatch pool so queued SMS sends finish
	dispatcher.Shutdown()

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	if redisClient != nil {
		if err = redisClient.Close(); err != nil {
			log.Error("Error closing Redis connection", "error", err)
		}
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
