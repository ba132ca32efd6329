package repository

import (
	"database/sql"
	"fmt"
)

// InitMigration initializes the database. In production, this would use a proper migration
// library like go-migrate
func InitMigration(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR(36) PRIMARY KEY,
			token_id VARCHAR(78) NOT NULL,
			price VARCHAR(78) NOT NULL,
			nft_contract VARCHAR(42) NOT NULL,
			marketplace_contract VARCHAR(42) NOT NULL,
			seller VARCHAR(42) NOT NULL,
			seaport_order JSONB NOT NULL,
			order_hash VARCHAR(66),
			image TEXT,
			on_chain BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS event_outbox (
			order_id VARCHAR(36) NOT NULL,
			event_type VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'unsent',
			event_blob JSONB NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			PRIMARY KEY (order_id, event_type)
		)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}
