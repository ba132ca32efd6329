package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Feridmli/Syncopensea/apps/market/internal/api"
	"github.com/Feridmli/Syncopensea/apps/market/internal/config"
	"github.com/Feridmli/Syncopensea/apps/market/internal/event_publisher"
	"github.com/Feridmli/Syncopensea/apps/market/internal/repository"
)

func main() {
	// Initialize zap logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	// Load configuration from environment variables
	cfg := config.NewConfig()

	logger.Info("Starting storage service with configuration",
		zap.Int("port", cfg.Port),
		zap.String("db_url", cfg.DbURL),
		zap.String("nft_contract", cfg.NFTContractAddress),
		zap.String("marketplace_contract", cfg.MarketplaceContractAddress),
		zap.String("static_dir", cfg.StaticDir),
		zap.String("kafka_broker", cfg.KafkaBroker),
	)

	// Connect to database
	db, err := sql.Open("postgres", cfg.DbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize database tables
	if err := repository.InitMigration(db); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	orderRepository := repository.NewOrderRepository(db, logger)

	// The order event stream is optional: without a broker the service runs
	// without an outbox or publisher.
	var outbox api.OutboxStore
	if cfg.KafkaBroker != "" {
		outboxRepository := repository.NewOutboxRepository(db, logger)
		outbox = outboxRepository

		eventPublisher, err := event_publisher.NewEventPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger, outboxRepository)
		if err != nil {
			logger.Fatal("Failed to create event publisher", zap.Error(err))
		}
		defer eventPublisher.Close()

		go eventPublisher.StartPublishing()
	}

	orderHandler := api.NewOrderHandler(orderRepository, outbox, cfg.NFTContractAddress, cfg.MarketplaceContractAddress, logger)

	// Create and start API server
	apiServer := api.NewServer(cfg.Port, orderHandler, cfg.StaticDir, logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Fatal("API server failed", zap.Error(err))
		}
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Received shutdown signal, starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Stop(ctx); err != nil {
		logger.Error("Error shutting down API server", zap.Error(err))
	}

	logger.Info("Storage service shutdown complete")
}
