package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// CreateOrderPayload is the body of POST /order. SeaportOrder is opaque and
// forwarded byte-for-byte.
type CreateOrderPayload struct {
	TokenID       string          `json:"tokenId"`
	Price         string          `json:"price"`
	SellerAddress string          `json:"sellerAddress"`
	SeaportOrder  json.RawMessage `json:"seaportOrder"`
	OrderHash     *string         `json:"orderHash,omitempty"`
	Image         *string         `json:"image,omitempty"`
}

// OrderRecord mirrors the storage service's order representation.
type OrderRecord struct {
	ID                  string          `json:"id"`
	TokenID             string          `json:"tokenId"`
	Price               string          `json:"price"`
	NFTContract         string          `json:"nftContract"`
	MarketplaceContract string          `json:"marketplaceContract"`
	Seller              string          `json:"seller"`
	SeaportOrder        json.RawMessage `json:"seaportOrder"`
	OrderHash           *string         `json:"orderHash"`
	Image               *string         `json:"image"`
	OnChain             bool            `json:"onChain"`
	CreatedAt           time.Time       `json:"createdAt"`
}

type createResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type listResponse struct {
	Success bool          `json:"success"`
	Orders  []OrderRecord `json:"orders"`
	Error   string        `json:"error"`
}

type getResponse struct {
	Success bool        `json:"success"`
	Order   OrderRecord `json:"order"`
	Error   string      `json:"error"`
}

// Client is the HTTP client for the storage service, shared by the
// synchronizer and the marketplace client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// PublishOrder posts one normalized order to the storage service.
func (c *Client) PublishOrder(ctx context.Context, payload CreateOrderPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/order", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("publish request failed: %w", err)
	}
	defer resp.Body.Close()

	var result createResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode publish response: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("backend rejected order: %s", result.Error)
	}

	return nil
}

// ListOrders fetches one page of orders.
func (c *Client) ListOrders(ctx context.Context, page, limit int) ([]OrderRecord, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	var result listResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("backend list failed: %s", result.Error)
	}

	return result.Orders, nil
}

// GetOrder fetches a single order by id. Returns nil when the id is unknown.
func (c *Client) GetOrder(ctx context.Context, id string) (*OrderRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build get request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	var result getResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode get response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("backend get failed: %s", result.Error)
	}

	return &result.Order, nil
}
