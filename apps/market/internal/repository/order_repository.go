package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Feridmli/Syncopensea/apps/market/internal/model"
)

type OrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewOrderRepository(db *sql.DB, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{db: db, logger: logger}
}

// CreateOrder appends a new order row. Orders are append-only: there is no
// update or delete path.
func (r *OrderRepository) CreateOrder(order model.Order) error {
	_, err := r.db.Exec(`
		INSERT INTO orders (id, token_id, price, nft_contract, marketplace_contract, seller, seaport_order, order_hash, image, on_chain, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, order.ID, order.TokenID, order.Price, order.NFTContract, order.MarketplaceContract, order.Seller,
		[]byte(order.SeaportOrder), order.OrderHash, order.Image, order.OnChain, order.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Info("Created order",
		zap.String("id", order.ID),
		zap.String("token_id", order.TokenID),
		zap.String("seller", order.Seller),
		zap.Bool("on_chain", order.OnChain))
	return nil
}

// ListOrders returns one page of orders sorted by created_at descending.
// page is 1-based; callers are expected to clamp page and limit.
func (r *OrderRepository) ListOrders(page, limit int) ([]model.Order, error) {
	offset := (page - 1) * limit

	rows, err := r.db.Query(`
		SELECT id, token_id, price, nft_contract, marketplace_contract, seller, seaport_order, order_hash, image, on_chain, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var order model.Order
		var seaportOrder []byte
		if err := rows.Scan(&order.ID, &order.TokenID, &order.Price, &order.NFTContract, &order.MarketplaceContract,
			&order.Seller, &seaportOrder, &order.OrderHash, &order.Image, &order.OnChain, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.SeaportOrder = seaportOrder
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) GetOrderByID(id string) (*model.Order, error) {
	var order model.Order
	var seaportOrder []byte
	err := r.db.QueryRow(`
		SELECT id, token_id, price, nft_contract, marketplace_contract, seller, seaport_order, order_hash, image, on_chain, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.TokenID, &order.Price, &order.NFTContract, &order.MarketplaceContract,
		&order.Seller, &seaportOrder, &order.OrderHash, &order.Image, &order.OnChain, &order.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}

	order.SeaportOrder = seaportOrder
	return &order, nil
}
