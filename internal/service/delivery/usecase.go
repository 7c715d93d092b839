package delivery

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"parcelbee/internal/apperr"
	"parcelbee/internal/domain"
	"parcelbee/internal/logx"
	"parcelbee/internal/ports/deliverytx"
)

// Options tunes the lifecycle engine.
type Options struct {
	OperationTimeout time.Duration
	// StrictTransitions rejects status updates that do not follow the
	// forward-only lifecycle. Off by default.
	StrictTransitions bool
}

// Service is the delivery lifecycle engine.
type Service struct {
	repo             deliveryRepository
	events           EventPublisher
	operationTimeout time.Duration
	strict           bool
	logger           logx.Logger
	now              func() time.Time
	newEventID       func() string
}

// NewDeliveryService creates a new lifecycle engine.
func NewDeliveryService(r deliveryRepository, events EventPublisher, opts Options, logger logx.Logger) *Service {
	if opts.OperationTimeout <= 0 {
		opts.OperationTimeout = 3 * time.Second
	}
	if events == nil {
		events = NopPublisher{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		events:           events,
		operationTimeout: opts.OperationTimeout,
		strict:           opts.StrictTransitions,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
		newEventID:       uuid.NewString,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create stores a new pending delivery owned by the calling customer.
func (s *Service) Create(ctx context.Context, p domain.Principal, in domain.NewDeliveryRequest) (*domain.DeliveryRequest, error) {
	if p.Role != domain.RoleCustomer {
		return nil, apperr.ErrForbidden
	}
	in, err := validateNew(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	d := &domain.DeliveryRequest{
		CustomerID:     p.UserID,
		PickupAddress:  in.PickupAddress,
		DropAddress:    in.DropAddress,
		Coordinates:    in.Coordinates,
		Description:    in.Description,
		WeightKg:       in.WeightKg,
		EstimatedPrice: in.EstimatedPrice,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("delivery created",
		logx.String("event", "delivery_created"),
		logx.Int64("delivery_id", d.ID),
		logx.Int64("customer_id", d.CustomerID),
		logx.Float64("weight_kg", d.WeightKg),
	)
	s.publish(ctx, d, domain.EventCreated, p.UserID)
	return d, nil
}

// ListFor returns the deliveries p may see, most recent first.
func (s *Service) ListFor(ctx context.Context, p domain.Principal, filter domain.PartnerFilter) ([]domain.DeliveryView, error) {
	scope := domain.ListScopeFor(p, filter)
	if scope.Empty() {
		return []domain.DeliveryView{}, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, scope)
}

// Detail returns one delivery if p may see it.
func (s *Service) Detail(ctx context.Context, p domain.Principal, id int64) (*domain.DeliveryView, error) {
	if id <= 0 {
		return nil, apperr.ErrNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	v, err := s.repo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.ErrNotFound
	}
	if !domain.CanView(p, &v.DeliveryRequest) {
		return nil, apperr.ErrForbidden
	}
	return v, nil
}

// Accept assigns a pending delivery to the calling partner. The row is locked
// and the write is conditional on it still being pending and unassigned, so
// of two concurrent calls exactly one succeeds.
func (s *Service) Accept(ctx context.Context, p domain.Principal, id int64) (*domain.DeliveryRequest, error) {
	if p.Role != domain.RolePartner {
		return nil, apperr.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var accepted *domain.DeliveryRequest
	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		d, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return apperr.ErrNotFound
		}
		if err := d.Accept(p.UserID, s.now()); err != nil {
			return err
		}
		ok, err := tx.MarkAccepted(ctx, d)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrDeliveryAlreadyAccepted
		}
		accepted = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery accepted",
		logx.String("event", "delivery_accepted"),
		logx.Int64("delivery_id", accepted.ID),
		logx.Int64("partner_id", p.UserID),
		logx.Time("accepted_at", *accepted.AcceptedAt),
	)
	s.publish(ctx, accepted, domain.EventAccepted, p.UserID)
	return accepted, nil
}

// UpdateStatus moves a delivery assigned to the caller to next.
// Assignment is checked by identity, not by role.
func (s *Service) UpdateStatus(ctx context.Context, p domain.Principal, id int64, next domain.DeliveryStatus) (*domain.DeliveryRequest, error) {
	if !next.Settable() {
		return nil, apperr.Invalid("Invalid status")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated *domain.DeliveryRequest
	var prev domain.DeliveryStatus
	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		d, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return apperr.ErrNotFound
		}
		if !d.AssignedTo(p.UserID) {
			return apperr.ErrForbidden
		}
		if s.strict && !d.Status.CanTransitionTo(next) {
			return domain.ErrDeliveryTransitionDenied
		}
		prev = d.Status
		d.ApplyStatus(next, s.now())
		if err := tx.SaveStatus(ctx, d); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery status changed",
		logx.String("event", "delivery_status_changed"),
		logx.Int64("delivery_id", updated.ID),
		logx.Int64("partner_id", p.UserID),
		logx.String("from", string(prev)),
		logx.String("to", string(updated.Status)),
	)
	s.publish(ctx, updated, domain.EventStatusChanged, p.UserID)
	return updated, nil
}

// publish is best effort: a lost event never fails the lifecycle operation.
func (s *Service) publish(ctx context.Context, d *domain.DeliveryRequest, kind domain.EventKind, actorID int64) {
	ev := domain.DeliveryEvent{
		ID:         s.newEventID(),
		DeliveryID: d.ID,
		Kind:       kind,
		Status:     d.Status,
		ActorID:    actorID,
		OccurredAt: d.UpdatedAt,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("delivery event publish failed",
			logx.String("event_id", ev.ID),
			logx.String("kind", string(kind)),
			logx.Int64("delivery_id", d.ID),
			logx.Err(err),
		)
	}
}

func validateNew(in domain.NewDeliveryRequest) (domain.NewDeliveryRequest, error) {
	in.PickupAddress = strings.TrimSpace(in.PickupAddress)
	in.DropAddress = strings.TrimSpace(in.DropAddress)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.PickupAddress == "":
		return in, apperr.Invalid("pickup_address is required")
	case in.DropAddress == "":
		return in, apperr.Invalid("drop_address is required")
	case in.Description == "":
		return in, apperr.Invalid("description is required")
	case math.IsNaN(in.WeightKg) || math.IsInf(in.WeightKg, 0) || in.WeightKg <= 0:
		return in, apperr.Invalid("weight must be positive")
	case in.EstimatedPrice != nil && !finite(*in.EstimatedPrice):
		return in, apperr.Invalid("estimated_price must be a finite number")
	case in.EstimatedPrice != nil && *in.EstimatedPrice < 0:
		return in, apperr.Invalid("estimated_price must not be negative")
	case !inRange(in.Coordinates.PickupLat, 90) || !inRange(in.Coordinates.DropLat, 90):
		return in, apperr.Invalid("latitude must be between -90 and 90")
	case !inRange(in.Coordinates.PickupLng, 180) || !inRange(in.Coordinates.DropLng, 180):
		return in, apperr.Invalid("longitude must be between -180 and 180")
	}
	return in, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// inRange reports whether an optional coordinate is finite and within ±limit.
func inRange(v *float64, limit float64) bool {
	return v == nil || (finite(*v) && math.Abs(*v) <= limit)
}
