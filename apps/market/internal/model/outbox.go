package model

import (
	"encoding/json"
	"time"
)

type OutboxEvent struct {
	OrderID   string          `db:"order_id"`
	EventType string          `db:"event_type"`
	Status    string          `db:"status"`
	EventBlob json.RawMessage `db:"event_blob"`
	CreatedAt time.Time       `db:"created_at"`
}
