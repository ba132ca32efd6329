package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Feridmli/Syncopensea/apps/market/internal/backend"
	"github.com/Feridmli/Syncopensea/apps/market/internal/config"
	"github.com/Feridmli/Syncopensea/apps/market/internal/marketplace"
	"github.com/Feridmli/Syncopensea/apps/market/internal/seaport"
)

// Command-line rendition of the marketplace client: lists paginated orders
// and fulfills a chosen one with the configured wallet.
func main() {
	page := flag.Int("page", 1, "listing page to load")
	buy := flag.String("buy", "", "order id to purchase")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg := config.NewConfig()
	ctx := context.Background()

	backendClient := backend.NewClient(cfg.BackendURL, logger)
	client := marketplace.NewClient(backendClient, 12, logger)

	if *buy == "" {
		listPage(ctx, client, *page)
		return
	}

	if cfg.WalletPrivateKey == "" {
		logger.Fatal("WALLET_PRIVATE_KEY is required to purchase")
	}

	settlement, err := seaport.NewClient(cfg.RpcURL, cfg.WalletPrivateKey, cfg.MarketplaceContractAddress, cfg.ChainID, logger)
	if err != nil {
		logger.Fatal("Failed to create settlement client", zap.Error(err))
	}
	defer settlement.Close()

	client.ConnectWallet(settlement, settlement.BuyerAddress())
	client.OnConfirmed = func() {
		listPage(ctx, client, *page)
	}

	record, err := backendClient.GetOrder(ctx, *buy)
	if err != nil {
		logger.Fatal("Failed to fetch order", zap.String("order_id", *buy), zap.Error(err))
	}
	if record == nil {
		logger.Fatal("Order not found", zap.String("order_id", *buy))
	}

	if err := client.Purchase(ctx, *record); err != nil {
		logger.Fatal("Purchase failed", zap.String("order_id", *buy), zap.Error(err))
	}
}

func listPage(ctx context.Context, client *marketplace.Client, page int) {
	listings, err := client.LoadPage(ctx, page)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load page %d: %v\n", page, err)
		os.Exit(1)
	}

	if len(listings) == 0 {
		fmt.Printf("no listings on page %d\n", page)
		return
	}

	for _, listing := range listings {
		price := listing.DisplayPrice
		if price == "" {
			price = "not listed"
		}
		fmt.Printf("%s  token=%s  price=%s APE  seller=%s\n",
			listing.Order.ID, listing.Order.TokenID, price, listing.Order.Seller)
	}
}
