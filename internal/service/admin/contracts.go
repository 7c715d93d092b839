//go:generate mockgen -source=contracts.go -destination=admin_mocks_test.go -package=admin_test

package admin

import (
	"context"

	"parcelbee/internal/domain"
)

// UserStats counts users.
type UserStats interface {
	Stats(ctx context.Context) (domain.UserStats, error)
}

// DeliveryStats counts deliveries per status.
type DeliveryStats interface {
	Stats(ctx context.Context) (domain.DeliveryStats, error)
}
