package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Feridmli/Syncopensea/apps/market/internal/backend"
	"github.com/Feridmli/Syncopensea/apps/market/internal/config"
	"github.com/Feridmli/Syncopensea/apps/market/internal/opensea"
	"github.com/Feridmli/Syncopensea/apps/market/internal/sync"
)

// One-shot: mirrors the external marketplace's active sell orders into the
// storage service, then exits.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg := config.NewConfig()

	logger.Info("Starting listing synchronizer with configuration",
		zap.String("backend_url", cfg.BackendURL),
		zap.String("opensea_base_url", cfg.OpenSeaBaseURL),
		zap.String("nft_contract", cfg.NFTContractAddress),
		zap.Int("page_size", cfg.SyncPageSize),
		zap.Int("max_pages", cfg.SyncMaxPages),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop cleanly on Ctrl-C; the run is safe to re-drive later.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Received shutdown signal, stopping sync...")
		cancel()
	}()

	marketplaceClient := opensea.NewClient(cfg.OpenSeaBaseURL, cfg.OpenSeaAPIKey, logger)
	backendClient := backend.NewClient(cfg.BackendURL, logger)

	synchronizer := sync.NewSynchronizer(marketplaceClient, backendClient, cfg.NFTContractAddress, cfg.SyncPageSize, cfg.SyncMaxPages, logger)

	if _, err := synchronizer.Run(ctx); err != nil {
		logger.Fatal("Sync failed", zap.Error(err))
	}
}
