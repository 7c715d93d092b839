package deliverytx

import (
	"context"

	"parcelbee/internal/domain"
)

// Repository is the view of delivery storage available inside a transaction.
type Repository interface {
	// GetForUpdate loads a delivery and locks its row until the transaction ends.
	// A missing delivery is reported as (nil, nil).
	GetForUpdate(ctx context.Context, id int64) (*domain.DeliveryRequest, error)
	// MarkAccepted stores the acceptance of d only if the stored row is still
	// pending and unassigned. It reports whether the row was updated.
	MarkAccepted(ctx context.Context, d *domain.DeliveryRequest) (bool, error)
	// SaveStatus writes status, updated_at and delivered_at of d.
	SaveStatus(ctx context.Context, d *domain.DeliveryRequest) error
}

// Runner is a transaction runner.
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
