package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Feridmli/Syncopensea/apps/market/internal/model"
)

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
)

// OrderStore is the persistence surface the handler needs. Orders are
// append-only: create, list, and lookup are the only operations.
type OrderStore interface {
	CreateOrder(order model.Order) error
	ListOrders(page, limit int) ([]model.Order, error)
	GetOrderByID(id string) (*model.Order, error)
}

// OutboxStore records order events for the background Kafka publisher.
type OutboxStore interface {
	StoreOutboxEvent(event model.OutboxEvent) error
}

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	store               OrderStore
	outbox              OutboxStore
	nftContract         string
	marketplaceContract string
	logger              *zap.Logger
}

// NewOrderHandler creates a new OrderHandler. outbox may be nil when the
// event stream is disabled.
func NewOrderHandler(store OrderStore, outbox OutboxStore, nftContract, marketplaceContract string, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		store:               store,
		outbox:              outbox,
		nftContract:         nftContract,
		marketplaceContract: marketplaceContract,
		logger:              logger,
	}
}

// CreateOrder handles POST /order
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	if req.TokenID == "" || req.Price == "" || req.SellerAddress == "" || isEmptyJSON(req.SeaportOrder) {
		h.writeErrorResponse(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	order := model.Order{
		ID:                  uuid.New().String(),
		TokenID:             req.TokenID,
		Price:               req.Price,
		NFTContract:         h.nftContract,
		MarketplaceContract: h.marketplaceContract,
		Seller:              strings.ToLower(req.SellerAddress),
		SeaportOrder:        req.SeaportOrder,
		OrderHash:           req.OrderHash,
		Image:               req.Image,
		OnChain:             req.OrderHash != nil && *req.OrderHash != "",
		CreatedAt:           time.Now().UTC(),
	}

	if err := h.store.CreateOrder(order); err != nil {
		h.logger.Error("Failed to create order", zap.String("token_id", order.TokenID), zap.Error(err))
		h.writeErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.recordOrderCreated(order)

	h.writeJSONResponse(w, http.StatusOK, CreateOrderResponse{
		Success: true,
		Order: CreatedOrder{
			ID:        order.ID,
			TokenID:   order.TokenID,
			Price:     order.Price,
			Seller:    req.SellerAddress,
			CreatedAt: order.CreatedAt,
		},
	})
}

// ListOrders handles GET /orders?page=&limit=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page := parseQueryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	limit := parseQueryInt(r, "limit", DefaultPageLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	orders, err := h.store.ListOrders(page, limit)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Int("page", page), zap.Int("limit", limit), zap.Error(err))
		h.writeErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	response := ListOrdersResponse{
		Success: true,
		Orders:  make([]OrderResponse, 0, len(orders)),
	}
	for _, order := range orders {
		response.Orders = append(response.Orders, toOrderResponse(order))
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// GetOrder handles GET /orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	order, err := h.store.GetOrderByID(id)
	if err != nil {
		h.logger.Error("Failed to get order", zap.String("id", id), zap.Error(err))
		h.writeErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	if order == nil {
		h.writeErrorResponse(w, http.StatusNotFound, "Not found")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, GetOrderResponse{
		Success: true,
		Order:   toOrderResponse(*order),
	})
}

// recordOrderCreated writes the outbox row for the event publisher. Failures
// are logged and never fail the create request.
func (h *OrderHandler) recordOrderCreated(order model.Order) {
	if h.outbox == nil {
		return
	}

	blob, err := json.Marshal(toOrderResponse(order))
	if err != nil {
		h.logger.Error("Failed to marshal order event", zap.String("id", order.ID), zap.Error(err))
		return
	}

	if err := h.outbox.StoreOutboxEvent(model.OutboxEvent{
		OrderID:   order.ID,
		EventType: "order_created",
		Status:    "unsent",
		EventBlob: blob,
	}); err != nil {
		h.logger.Error("Failed to store order event", zap.String("id", order.ID), zap.Error(err))
	}
}

func toOrderResponse(order model.Order) OrderResponse {
	return OrderResponse{
		ID:                  order.ID,
		TokenID:             order.TokenID,
		Price:               order.Price,
		NFTContract:         order.NFTContract,
		MarketplaceContract: order.MarketplaceContract,
		Seller:              order.Seller,
		SeaportOrder:        order.SeaportOrder,
		OrderHash:           order.OrderHash,
		Image:               order.Image,
		OnChain:             order.OnChain,
		CreatedAt:           order.CreatedAt,
	}
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func parseQueryInt(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// writeJSONResponse writes a JSON response with the specified status code
func (h *OrderHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeErrorResponse writes an error response. Internal detail never leaks
// into the body; it is logged server-side instead.
func (h *OrderHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSONResponse(w, statusCode, ErrorResponse{Success: false, Error: message})
}
