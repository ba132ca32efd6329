package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Feridmli/Syncopensea/apps/market/internal/backend"
	"github.com/Feridmli/Syncopensea/apps/market/internal/chain"
	"github.com/Feridmli/Syncopensea/apps/market/internal/seaport"
)

// PurchaseState tracks one purchase attempt.
type PurchaseState string

const (
	StateIdle                      PurchaseState = "idle"
	StateAwaitingWalletSignature   PurchaseState = "awaiting_wallet_signature"
	StateAwaitingChainConfirmation PurchaseState = "awaiting_chain_confirmation"
	StateConfirmed                 PurchaseState = "confirmed"
	StateFailed                    PurchaseState = "failed"
)

var (
	ErrWalletNotConnected  = errors.New("wallet not connected")
	ErrMissingOrderData    = errors.New("order record has no settlement payload")
	ErrPurchaseInProgress  = errors.New("another purchase is in progress")
	ErrNoExecutableActions = errors.New("settlement result exposes no executable actions")
)

// ListingSource is the storage-service surface the client reads from.
type ListingSource interface {
	ListOrders(ctx context.Context, page, limit int) ([]backend.OrderRecord, error)
	GetOrder(ctx context.Context, id string) (*backend.OrderRecord, error)
}

// Listing is one order prepared for display.
type Listing struct {
	Order        backend.OrderRecord
	DisplayPrice string
}

// Client drives listing consumption and the purchase flow. It is not a
// store of record; all durable state lives behind the ListingSource.
type Client struct {
	source     ListingSource
	settlement seaport.Settlement // nil until a wallet is connected
	buyer      common.Address
	pageSize   int
	logger     *zap.Logger

	// OnConfirmed fires after a confirmed purchase so the UI can reload
	// the current page.
	OnConfirmed func()

	mu         sync.Mutex
	state      PurchaseState
	purchasing bool
}

func NewClient(source ListingSource, pageSize int, logger *zap.Logger) *Client {
	return &Client{
		source:   source,
		pageSize: pageSize,
		logger:   logger,
		state:    StateIdle,
	}
}

// ConnectWallet attaches signing capability to the client.
func (c *Client) ConnectWallet(settlement seaport.Settlement, buyer common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settlement = settlement
	c.buyer = buyer
}

func (c *Client) State() PurchaseState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(state PurchaseState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// LoadPage fetches one page of listings. The display price falls back to the
// settlement payload's first consideration amount when no explicit price is
// stored.
func (c *Client) LoadPage(ctx context.Context, page int) ([]Listing, error) {
	orders, err := c.source.ListOrders(ctx, page, c.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %d: %w", page, err)
	}

	listings := make([]Listing, 0, len(orders))
	for _, order := range orders {
		listings = append(listings, Listing{
			Order:        order,
			DisplayPrice: displayPrice(order),
		})
	}

	return listings, nil
}

// Purchase fulfills one order record through the settlement client. At most
// one purchase is in flight at a time; callers see ErrPurchaseInProgress
// until the current attempt finishes.
func (c *Client) Purchase(ctx context.Context, record backend.OrderRecord) error {
	c.mu.Lock()
	if c.purchasing {
		c.mu.Unlock()
		return ErrPurchaseInProgress
	}
	c.purchasing = true
	settlement := c.settlement
	buyer := c.buyer
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.purchasing = false
		c.mu.Unlock()
	}()

	if err := c.purchase(ctx, settlement, buyer, record); err != nil {
		c.setState(StateFailed)
		c.logger.Error("Purchase failed", zap.String("order_id", record.ID), zap.Error(err))
		c.setState(StateIdle)
		return err
	}

	c.setState(StateConfirmed)
	c.logger.Info("Purchase confirmed", zap.String("order_id", record.ID), zap.String("token_id", record.TokenID))

	if c.OnConfirmed != nil {
		c.OnConfirmed()
	}
	c.setState(StateIdle)

	return nil
}

func (c *Client) purchase(ctx context.Context, settlement seaport.Settlement, buyer common.Address, record backend.OrderRecord) error {
	if settlement == nil {
		return ErrWalletNotConnected
	}
	if len(record.SeaportOrder) == 0 || string(record.SeaportOrder) == "null" {
		return ErrMissingOrderData
	}

	c.setState(StateAwaitingWalletSignature)

	result, err := settlement.CreateFulfillment(ctx, record.SeaportOrder, buyer)
	if err != nil {
		return fmt.Errorf("settlement failure: %w", err)
	}

	tx, err := c.submit(ctx, result)
	if err != nil {
		return err
	}

	c.setState(StateAwaitingChainConfirmation)

	// The waiter capability is optional across settlement implementations;
	// its absence is logged, not treated as failure.
	if waiter, ok := tx.(seaport.ConfirmationWaiter); ok {
		if err := waiter.Wait(ctx); err != nil {
			return fmt.Errorf("settlement failure: %w", err)
		}
	} else {
		c.logger.Warn("Submitted transaction does not support confirmation, skipping wait",
			zap.String("tx_hash", tx.Hash()))
	}

	return nil
}

// submit probes the fulfillment result for a way to obtain a submitted
// transaction: an action runner, or the result already being the tx itself.
func (c *Client) submit(ctx context.Context, result seaport.Fulfillment) (seaport.SubmittedTx, error) {
	if runner, ok := result.(seaport.ActionRunner); ok {
		tx, err := runner.ExecuteAllActions(ctx)
		if err != nil {
			return nil, fmt.Errorf("settlement failure: %w", err)
		}
		return tx, nil
	}

	if tx, ok := result.(seaport.SubmittedTx); ok {
		return tx, nil
	}

	return nil, ErrNoExecutableActions
}

// displayPrice prefers the stored price; the consideration-based value is a
// heuristic fallback only.
func displayPrice(order backend.OrderRecord) string {
	if order.Price != "" && order.Price != "0" {
		return order.Price
	}
	if fallback := priceFromSettlementOrder(order.SeaportOrder); fallback != "" {
		return fallback
	}
	return order.Price
}

// priceFromSettlementOrder reads the first consideration item's amount as an
// 18-decimal base-currency value. Returns "" when the payload has no usable
// amount.
func priceFromSettlementOrder(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var payload struct {
		Parameters struct {
			Consideration []struct {
				StartAmount string `json:"startAmount"`
				EndAmount   string `json:"endAmount"`
			} `json:"consideration"`
		} `json:"parameters"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if len(payload.Parameters.Consideration) == 0 {
		return ""
	}

	first := payload.Parameters.Consideration[0]
	amount := first.EndAmount
	if amount == "" {
		amount = first.StartAmount
	}

	wei, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return ""
	}

	return chain.FormatUnits(wei, chain.ApeChain.NativeDecimals)
}
