package sync

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/Feridmli/Syncopensea/apps/market/internal/backend"
	"github.com/Feridmli/Syncopensea/apps/market/internal/chain"
	"github.com/Feridmli/Syncopensea/apps/market/internal/opensea"
)

// AssetFetcher pages through the external marketplace's assets.
type AssetFetcher interface {
	FetchAssets(ctx context.Context, contract string, offset, limit int) ([]opensea.Asset, error)
}

// OrderPublisher republishes one normalized order to the storage service.
type OrderPublisher interface {
	PublishOrder(ctx context.Context, payload backend.CreateOrderPayload) error
}

// Summary reports what one run did.
type Summary struct {
	Pages     int
	Published int
	Skipped   int
	Failed    int
}

// Synchronizer mirrors the external marketplace's active sell orders into
// the storage service. Safe to re-run; the catalog tolerates duplicates.
type Synchronizer struct {
	marketplace AssetFetcher
	publisher   OrderPublisher
	contract    string
	pageSize    int
	maxPages    int // 0 disables the bound
	logger      *zap.Logger
}

func NewSynchronizer(marketplace AssetFetcher, publisher OrderPublisher, contract string, pageSize, maxPages int, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		marketplace: marketplace,
		publisher:   publisher,
		contract:    contract,
		pageSize:    pageSize,
		maxPages:    maxPages,
		logger:      logger,
	}
}

// Run pulls pages until the marketplace returns an empty one, or until the
// page bound is hit. A fetch failure is logged and treated as an empty page.
// Orders are extracted and published strictly sequentially.
func (s *Synchronizer) Run(ctx context.Context) (Summary, error) {
	s.logger.Info("Sync started",
		zap.String("contract", s.contract),
		zap.Int("page_size", s.pageSize),
		zap.Int("max_pages", s.maxPages))

	var summary Summary

	for page := 0; s.maxPages == 0 || page < s.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		offset := page * s.pageSize
		assets, err := s.marketplace.FetchAssets(ctx, s.contract, offset, s.pageSize)
		if err != nil {
			s.logger.Error("Marketplace fetch failed, treating as empty page",
				zap.Int("offset", offset), zap.Error(err))
			assets = nil
		}

		if len(assets) == 0 {
			break
		}
		summary.Pages++

		for _, asset := range assets {
			s.publishAssetOrders(ctx, asset, &summary)
		}
	}

	s.logger.Info("Sync finished",
		zap.Int("pages", summary.Pages),
		zap.Int("published", summary.Published),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

func (s *Synchronizer) publishAssetOrders(ctx context.Context, asset opensea.Asset, summary *Summary) {
	for _, order := range asset.SellOrders {
		payload, ok := extractOrder(asset, order)
		if !ok {
			summary.Skipped++
			continue
		}

		if err := s.publisher.PublishOrder(ctx, payload); err != nil {
			s.logger.Error("Failed to publish order",
				zap.String("token_id", asset.TokenID), zap.Error(err))
			summary.Failed++
			continue
		}

		s.logger.Info("Order added", zap.String("token_id", asset.TokenID))
		summary.Published++
	}
}

// extractOrder normalizes one sell order. Orders without a settlement
// payload cannot be fulfilled and are skipped.
func extractOrder(asset opensea.Asset, order opensea.SellOrder) (backend.CreateOrderPayload, bool) {
	if !hasParameters(order.ProtocolData) {
		return backend.CreateOrderPayload{}, false
	}

	payload := backend.CreateOrderPayload{
		TokenID:       asset.TokenID,
		Price:         convertPrice(order.CurrentPrice),
		SellerAddress: sellerAddress(order.Maker),
		SeaportOrder:  order.ProtocolData,
	}

	if order.OrderHash != "" {
		hash := order.OrderHash
		payload.OrderHash = &hash
	}

	if image := assetImage(asset); image != "" {
		payload.Image = &image
	}

	return payload, true
}

func hasParameters(protocolData json.RawMessage) bool {
	if len(protocolData) == 0 {
		return false
	}
	var probe struct {
		Parameters json.RawMessage `json:"parameters"`
	}
	if err := json.Unmarshal(protocolData, &probe); err != nil {
		return false
	}
	return len(probe.Parameters) > 0 && string(probe.Parameters) != "null"
}

// convertPrice turns a raw 18-decimal amount into a human-readable decimal
// string, defaulting to "0" when the price is absent or unparseable.
func convertPrice(currentPrice string) string {
	if currentPrice == "" {
		return "0"
	}
	// The API reports prices like "9000000000000000000.00"
	priceFloat, ok := new(big.Float).SetString(currentPrice)
	if !ok {
		return "0"
	}
	wei, _ := priceFloat.Int(nil)
	return chain.FormatUnits(wei, chain.ApeChain.NativeDecimals)
}

func sellerAddress(maker *opensea.Maker) string {
	if maker == nil || maker.Address == "" {
		return "unknown"
	}
	return strings.ToLower(maker.Address)
}

func assetImage(asset opensea.Asset) string {
	if asset.ImageURL != "" {
		return asset.ImageURL
	}
	if asset.Metadata != nil {
		return asset.Metadata.Image
	}
	return ""
}
