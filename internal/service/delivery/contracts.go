//go:generate mockgen -source=contracts.go -destination=delivery_mocks_test.go -package=delivery_test

package delivery

import (
	"context"

	"parcelbee/internal/domain"
	"parcelbee/internal/ports/deliverytx"
)

type deliveryRepository interface {
	WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error
	Create(ctx context.Context, d *domain.DeliveryRequest) error
	GetView(ctx context.Context, id int64) (*domain.DeliveryView, error)
	List(ctx context.Context, scope domain.ListScope) ([]domain.DeliveryView, error)
}

// EventPublisher delivers lifecycle events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.DeliveryEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, domain.DeliveryEvent) error { return nil }
