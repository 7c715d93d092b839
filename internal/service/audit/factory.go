package audit

import (
	"fmt"

	"parcelbee/internal/apperr"
	"parcelbee/internal/domain"
)

type checkFunc func(domain.DeliveryEvent) error

// checksByKind validates the status carried by each kind of event.
var checksByKind = map[domain.EventKind]checkFunc{
	domain.EventCreated: func(ev domain.DeliveryEvent) error {
		if ev.Status != domain.StatusPending {
			return apperr.Invalid("created event with status %q", ev.Status)
		}
		return nil
	},
	domain.EventAccepted: func(ev domain.DeliveryEvent) error {
		if ev.Status != domain.StatusAccepted {
			return apperr.Invalid("accepted event with status %q", ev.Status)
		}
		return nil
	},
	domain.EventStatusChanged: func(ev domain.DeliveryEvent) error {
		if !ev.Status.Settable() {
			return apperr.Invalid("status_changed event with status %q", ev.Status)
		}
		return nil
	},
}

func check(ev domain.DeliveryEvent) error {
	fn, ok := checksByKind[ev.Kind]
	if !ok {
		return fmt.Errorf("%w: unknown event kind %q", apperr.ErrInvalid, ev.Kind)
	}
	if ev.DeliveryID <= 0 {
		return apperr.Invalid("event %s has no delivery", ev.ID)
	}
	if ev.ActorID <= 0 {
		return apperr.Invalid("event %s has no actor", ev.ID)
	}
	if ev.OccurredAt.IsZero() {
		return apperr.Invalid("event %s has no timestamp", ev.ID)
	}
	return fn(ev)
}
