package events

import (
	"context"
	"time"

	"hotelledger/pkg/requestid"

	"github.com/google/uuid"
)

const (
	TypeRoomCreated    = "room.created"
	TypeRoomUpdated    = "room.updated"
	TypeUserCreated    = "user.created"
	TypeBookingCreated = "booking.created"

	SchemaVersion = "1"
	Source        = "hotel-ledger"
)

// Event is a ledger state change announced after it has been applied.
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Key           string    `json:"key"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Payload       any       `json:"payload"`
}

// New builds an event keyed by key, correlated with the request in ctx.
func New(ctx context.Context, eventType, key string, occurredAt time.Time, payload any) Event {
	return Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Key:           key,
		OccurredAt:    occurredAt.UTC(),
		CorrelationID: requestid.From(ctx),
		Payload:       payload,
	}
}

// Publisher delivers events to a broker. Implementations are safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
