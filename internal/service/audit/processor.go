package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"parcelbee/internal/apperr"
	"parcelbee/internal/domain"
	"parcelbee/internal/logx"
)

// Processor appends delivery lifecycle events to the audit log.
type Processor struct {
	store  EventStore
	events *prometheus.CounterVec
	logger logx.Logger
}

// NewProcessor creates a Processor. events may be nil.
func NewProcessor(store EventStore, events *prometheus.CounterVec, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Processor{store: store, events: events, logger: logger}
}

// Handle validates and stores ev. Malformed events yield an error wrapping
// apperr.ErrInvalid; redelivered events are ignored.
func (p *Processor) Handle(ctx context.Context, ev domain.DeliveryEvent) error {
	if _, err := uuid.Parse(ev.ID); err != nil {
		p.count(ev.Kind, "rejected")
		return apperr.Invalid("event id %q is not a uuid", ev.ID)
	}
	if err := check(ev); err != nil {
		p.count(ev.Kind, "rejected")
		return err
	}

	inserted, err := p.store.Append(ctx, ev)
	if err != nil {
		p.count(ev.Kind, "failed")
		return err
	}
	if !inserted {
		p.count(ev.Kind, "duplicate")
		p.logger.Debug("duplicate delivery event ignored", logx.String("event_id", ev.ID))
		return nil
	}

	p.count(ev.Kind, "recorded")
	p.logger.Info("delivery event recorded",
		logx.String("event_id", ev.ID),
		logx.Int64("delivery_id", ev.DeliveryID),
		logx.String("kind", string(ev.Kind)),
		logx.String("status", string(ev.Status)),
	)
	return nil
}

func (p *Processor) count(kind domain.EventKind, result string) {
	if p.events == nil {
		return
	}
	p.events.WithLabelValues(string(kind), result).Inc()
}
