package app

import (
	"context"
	"errors"

	"parcelbee/internal/apperr"
	"parcelbee/internal/domain"
	"parcelbee/internal/transport/kafka"
)

type eventHandler interface {
	Handle(ctx context.Context, ev domain.DeliveryEvent) error
}

// makeAuditHandler marks events the processor rejects as invalid as permanent,
// so the consumer commits past them instead of retrying forever.
func makeAuditHandler(h eventHandler) kafka.HandleFunc {
	return func(ctx context.Context, ev domain.DeliveryEvent) error {
		err := h.Handle(ctx, ev)
		if err != nil && errors.Is(err, apperr.ErrInvalid) {
			return kafka.Permanent(err)
		}
		return err
	}
}
