package domain

import "time"

// EventKind classifies lifecycle events.
type EventKind string

// Lifecycle event kinds.
const (
	EventCreated       EventKind = "created"
	EventAccepted      EventKind = "accepted"
	EventStatusChanged EventKind = "status_changed"
)

// DeliveryEvent records one lifecycle mutation.
type DeliveryEvent struct {
	ID         string
	DeliveryID int64
	Kind       EventKind
	Status     DeliveryStatus
	ActorID    int64
	OccurredAt time.Time
}
