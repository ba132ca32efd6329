package opensea

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Client talks to the external marketplace assets API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FetchAssets returns one page of assets for the given collection contract.
// The API caps limit at 50.
func (c *Client) FetchAssets(ctx context.Context, contract string, offset, limit int) ([]Asset, error) {
	query := url.Values{}
	query.Set("asset_contract_address", contract)
	query.Set("order_direction", "desc")
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s/api/v1/assets?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build assets request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assets request returned status %d", resp.StatusCode)
	}

	var body assetsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode assets response: %w", err)
	}

	c.logger.Info("Fetched assets page",
		zap.String("contract", contract),
		zap.Int("offset", offset),
		zap.Int("count", len(body.Assets)))

	return body.Assets, nil
}
