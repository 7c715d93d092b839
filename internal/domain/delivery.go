package domain

import (
	"fmt"
	"time"

	"parcelbee/internal/apperr"
)

// DeliveryStatus is the lifecycle state of a delivery request.
type DeliveryStatus string

// Lifecycle states.
const (
	StatusPending   DeliveryStatus = "pending"
	StatusAccepted  DeliveryStatus = "accepted"
	StatusInTransit DeliveryStatus = "in_transit"
	StatusDelivered DeliveryStatus = "delivered"
	StatusCancelled DeliveryStatus = "cancelled"
)

// AllStatuses lists every lifecycle state in lifecycle order.
var AllStatuses = [...]DeliveryStatus{
	StatusPending, StatusAccepted, StatusInTransit, StatusDelivered, StatusCancelled,
}

// partner-settable targets of an update-status call
var settableStatuses = [...]DeliveryStatus{
	StatusAccepted, StatusInTransit, StatusDelivered, StatusCancelled,
}

var forwardTransitions = map[DeliveryStatus][]DeliveryStatus{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusCancelled},
}

// Valid checks that s is a known state.
func (s DeliveryStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Settable reports whether a partner may request s through a status update.
func (s DeliveryStatus) Settable() bool {
	for _, v := range settableStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are defined from s.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether next follows s in the forward-only lifecycle.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, v := range forwardTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// Lifecycle errors surfaced to callers.
var (
	ErrDeliveryNotAvailable     = fmt.Errorf("%w: delivery is not available", apperr.ErrInvalidState)
	ErrDeliveryAlreadyAccepted  = fmt.Errorf("%w: delivery already accepted by another partner", apperr.ErrConflict)
	ErrDeliveryTransitionDenied = fmt.Errorf("%w: status transition not allowed", apperr.ErrInvalidState)
)

// Coordinates holds the optional pickup/drop positions of a delivery.
type Coordinates struct {
	PickupLat *float64
	PickupLng *float64
	DropLat   *float64
	DropLng   *float64
}

// DeliveryRequest is a customer's request to move a parcel.
type DeliveryRequest struct {
	ID             int64
	CustomerID     int64
	PartnerID      *int64
	PickupAddress  string
	DropAddress    string
	Coordinates    Coordinates
	Description    string
	WeightKg       float64
	EstimatedPrice *float64
	Status         DeliveryStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AcceptedAt     *time.Time
	DeliveredAt    *time.Time
}

// NewDeliveryRequest carries the customer-provided fields of a new delivery.
type NewDeliveryRequest struct {
	PickupAddress  string
	DropAddress    string
	Description    string
	WeightKg       float64
	Coordinates    Coordinates
	EstimatedPrice *float64
}

// OwnedBy reports whether userID is the customer of d.
func (d *DeliveryRequest) OwnedBy(userID int64) bool {
	return d.CustomerID == userID
}

// AssignedTo reports whether userID is the partner of d.
func (d *DeliveryRequest) AssignedTo(userID int64) bool {
	return d.PartnerID != nil && *d.PartnerID == userID
}

// Available reports whether d is pending and unassigned.
func (d *DeliveryRequest) Available() bool {
	return d.Status == StatusPending && d.PartnerID == nil
}

// CheckAcceptable validates the accept preconditions in order: status first, then assignment.
func (d *DeliveryRequest) CheckAcceptable() error {
	if d.Status != StatusPending {
		return ErrDeliveryNotAvailable
	}
	if d.PartnerID != nil {
		return ErrDeliveryAlreadyAccepted
	}
	return nil
}

// Accept assigns partnerID and moves d to accepted.
func (d *DeliveryRequest) Accept(partnerID int64, now time.Time) error {
	if err := d.CheckAcceptable(); err != nil {
		return err
	}
	pid := partnerID
	at := now
	d.PartnerID = &pid
	d.Status = StatusAccepted
	d.AcceptedAt = &at
	d.UpdatedAt = now
	return nil
}

// ApplyStatus moves d to next. delivered_at is set on entering delivered and
// cleared on leaving it; accepted_at is only ever set by Accept.
func (d *DeliveryRequest) ApplyStatus(next DeliveryStatus, now time.Time) {
	d.Status = next
	d.UpdatedAt = now
	if next == StatusDelivered {
		at := now
		d.DeliveredAt = &at
		return
	}
	d.DeliveredAt = nil
}

// DeliveryView is a delivery with its customer and partner resolved.
type DeliveryView struct {
	DeliveryRequest
	Customer UserRef
	Partner  *UserRef
}
