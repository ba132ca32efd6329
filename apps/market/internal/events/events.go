package events

import (
	"encoding/json"
	"time"
)

// OrderEvent is the message published for each catalog change. EventData
// carries the full order record as stored.
type OrderEvent struct {
	EventType string          `json:"event_type"`
	OrderID   string          `json:"order_id"`
	EventData json.RawMessage `json:"event_data"`
	Timestamp time.Time       `json:"timestamp"`
}
