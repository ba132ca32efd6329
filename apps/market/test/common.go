package test

import (
	"encoding/json"
	"os"
	"time"
)

const (
	// Test server configuration
	DefaultBaseURL = "http://localhost:3000"

	// Test seller address (example address)
	TestSellerAddress = "0x3F1aa1B1ea0024a2CC0a0Ec1C1C3C9C39A749B2E"

	// Test order parameters
	TestTokenID = "42"
	TestPrice   = "9"
)

// TestSeaportOrder is a minimal settlement payload accepted by the API.
const TestSeaportOrder = `{"parameters":{"offerer":"0x3f1aa1b1ea0024a2cc0a0ec1c1c3c9c39a749b2e","consideration":[{"itemType":0,"startAmount":"9000000000000000000","endAmount":"9000000000000000000"}]},"signature":"0xdeadbeef"}`

// BaseURL returns the server under test, overridable for CI environments.
func BaseURL() string {
	if url := os.Getenv("MARKETPLACE_TEST_URL"); url != "" {
		return url
	}
	return DefaultBaseURL
}

// CreateOrderRequest represents the request body for publishing an order
type CreateOrderRequest struct {
	TokenID       string          `json:"tokenId,omitempty"`
	Price         string          `json:"price,omitempty"`
	SellerAddress string          `json:"sellerAddress,omitempty"`
	SeaportOrder  json.RawMessage `json:"seaportOrder,omitempty"`
	OrderHash     string          `json:"orderHash,omitempty"`
	Image         string          `json:"image,omitempty"`
}

// OrderResponse represents one order in API responses
type OrderResponse struct {
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

// CreateOrderResponse represents the response for a successful publish
type CreateOrderResponse struct {
	Success bool          `json:"success"`
	Order   OrderResponse `json:"order"`
}

// ListOrdersResponse represents the paginated orders response
type ListOrdersResponse struct {
	Success bool            `json:"success"`
	Orders  []OrderResponse `json:"orders"`
}

// GetOrderResponse represents the single-order response
type GetOrderResponse struct {
	Success bool          `json:"success"`
	Order   OrderResponse `json:"order"`
}

// ErrorResponse represents the API error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
