package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"parcelbee/internal/domain"
)

// EventRepo is the append-only delivery_events store.
type EventRepo struct{ db *pgxpool.Pool }

// NewEventRepo creates a new EventRepo.
func NewEventRepo(db *pgxpool.Pool) *EventRepo { return &EventRepo{db: db} }

// Append - stores ev once. It reports false when an event with the same id already exists.
func (r *EventRepo) Append(ctx context.Context, ev domain.DeliveryEvent) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        INSERT INTO delivery_events (id, delivery_id, kind, status, actor_id, occurred_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO NOTHING
    `, ev.ID, ev.DeliveryID, string(ev.Kind), string(ev.Status), ev.ActorID, ev.OccurredAt)
	if err != nil {
		return false, fmt.Errorf("append delivery event %s: %w", ev.ID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// ListByDelivery - returns the recorded events of a delivery in occurrence order.
func (r *EventRepo) ListByDelivery(ctx context.Context, deliveryID int64) ([]domain.DeliveryEvent, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id::text, delivery_id, kind, status, actor_id, occurred_at
        FROM delivery_events
        WHERE delivery_id = $1
        ORDER BY occurred_at, recorded_at
    `, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("list delivery events %d: %w", deliveryID, err)
	}
	defer rows.Close()

	out := make([]domain.DeliveryEvent, 0)
	for rows.Next() {
		var ev domain.DeliveryEvent
		if err := rows.Scan(&ev.ID, &ev.DeliveryID, &ev.Kind, &ev.Status, &ev.ActorID, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan delivery event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
