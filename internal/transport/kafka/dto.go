package kafka

import (
	"strings"
	"time"

	"parcelbee/internal/domain"
)

// EventDTO is the wire form of domain.DeliveryEvent.
type EventDTO struct {
	ID         string    `json:"event_id"`
	DeliveryID int64     `json:"delivery_id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	ActorID    int64     `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToDomain converts EventDTO to domain.DeliveryEvent
func ToDomain(dto EventDTO) domain.DeliveryEvent {
	return domain.DeliveryEvent{
		ID:         strings.TrimSpace(dto.ID),
		DeliveryID: dto.DeliveryID,
		Kind:       domain.EventKind(strings.ToLower(strings.TrimSpace(dto.Kind))),
		Status:     domain.DeliveryStatus(strings.ToLower(strings.TrimSpace(dto.Status))),
		ActorID:    dto.ActorID,
		OccurredAt: dto.OccurredAt,
	}
}

// FromDomain converts domain.DeliveryEvent to EventDTO
func FromDomain(ev domain.DeliveryEvent) EventDTO {
	return EventDTO{
		ID:         ev.ID,
		DeliveryID: ev.DeliveryID,
		Kind:       string(ev.Kind),
		Status:     string(ev.Status),
		ActorID:    ev.ActorID,
		OccurredAt: ev.OccurredAt.UTC(),
	}
}
