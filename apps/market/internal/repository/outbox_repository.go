package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Feridmli/Syncopensea/apps/market/internal/model"
)

type OutboxRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewOutboxRepository(db *sql.DB, logger *zap.Logger) *OutboxRepository {
	return &OutboxRepository{db: db, logger: logger}
}

func (r *OutboxRepository) StoreOutboxEvent(event model.OutboxEvent) error {
	_, err := r.db.Exec(`
		INSERT INTO event_outbox (order_id, event_type, status, event_blob)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id, event_type) DO NOTHING
	`, event.OrderID, event.EventType, event.Status, []byte(event.EventBlob))

	if err != nil {
		return fmt.Errorf("failed to store outbox event: %w", err)
	}

	r.logger.Info("Stored event", zap.String("event_type", event.EventType), zap.String("order_id", event.OrderID))
	return nil
}

// GetUnsentEventsForProcessing claims a batch of unsent events by moving them
// to 'processing' inside a single transaction, so concurrent publishers never
// pick up the same rows.
func (r *OutboxRepository) GetUnsentEventsForProcessing(limit int) ([]model.OutboxEvent, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() // Will be ignored if tx.Commit() succeeds

	rows, err := tx.Query(`
		SELECT order_id, event_type, status, event_blob, created_at
		FROM event_outbox
		WHERE status = 'unsent'
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.OutboxEvent
	for rows.Next() {
		var event model.OutboxEvent
		var blob []byte
		if err := rows.Scan(&event.OrderID, &event.EventType, &event.Status, &blob, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.EventBlob = blob
		events = append(events, event)
	}
	rows.Close()

	for _, event := range events {
		_, err = tx.Exec(`
			UPDATE event_outbox
			SET status = 'processing'
			WHERE order_id = $1 AND event_type = $2 AND status = 'unsent'
		`, event.OrderID, event.EventType)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *OutboxRepository) MarkEventAsSent(orderID, eventType string) error {
	_, err := r.db.Exec(`
		UPDATE event_outbox
		SET status = 'sent'
		WHERE order_id = $1 AND event_type = $2
	`, orderID, eventType)
	return err
}

// MarkEventAsFailed returns a claimed event to 'unsent' so a later poll retries it.
func (r *OutboxRepository) MarkEventAsFailed(orderID, eventType string) error {
	_, err := r.db.Exec(`
		UPDATE event_outbox
		SET status = 'unsent'
		WHERE order_id = $1 AND event_type = $2 AND status = 'processing'
	`, orderID, eventType)
	return err
}
