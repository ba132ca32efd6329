package api

import (
	"encoding/json"
	"time"
)

// CreateOrderRequest represents the request body for publishing an order.
// seaportOrder is opaque: it is stored and forwarded byte-for-byte.
type CreateOrderRequest struct {
	TokenID       string          `json:"tokenId"`
	Price         string          `json:"price"`
	SellerAddress string          `json:"sellerAddress"`
	SeaportOrder  json.RawMessage `json:"seaportOrder"`
	OrderHash     *string         `json:"orderHash,omitempty"`
	Image         *string         `json:"image,omitempty"`
}

// CreatedOrder echoes the fields of a freshly created order.
type CreatedOrder struct {
	ID        string    `json:"id"`
	TokenID   string    `json:"tokenId"`
	Price     string    `json:"price"`
	Seller    string    `json:"seller"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderResponse represents a stored order record.
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

type CreateOrderResponse struct {
	Success bool         `json:"success"`
	Order   CreatedOrder `json:"order"`
}

type ListOrdersResponse struct {
	Success bool            `json:"success"`
	Orders  []OrderResponse `json:"orders"`
}

type GetOrderResponse struct {
	Success bool          `json:"success"`
	Order   OrderResponse `json:"order"`
}

// ErrorResponse represents the API error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
