//go:generate mockgen -source=contracts.go -destination=audit_mocks_test.go -package=audit_test

package audit

import (
	"context"

	"parcelbee/internal/domain"
)

// EventStore is the append-only audit log. Append reports false for an
// event id that is already stored.
type EventStore interface {
	Append(ctx context.Context, ev domain.DeliveryEvent) (bool, error)
}
