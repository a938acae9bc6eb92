package notifications

import (
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the kind of marketplace notification.
type MessageType string

const (
	TypeEventConfigured MessageType = "event.configured"
	TypeEventUpdated    MessageType = "event.updated"
	TypeEventCancelled  MessageType = "event.cancelled"
)

// Message is the payload published to Kafka. Consumers (mailers, feeds,
// search indexers) key off Type.
type Message struct {
	ID         uuid.UUID   `json:"id"`
	Type       MessageType `json:"type"`
	EventID    uuid.UUID   `json:"event_id"`
	ProducerID uuid.UUID   `json:"producer_id"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func NewMessage(msgType MessageType, eventID, producerID uuid.UUID) *Message {
	return &Message{
		ID:         uuid.New(),
		Type:       msgType,
		EventID:    eventID,
		ProducerID: producerID,
		OccurredAt: time.Now().UTC(),
	}
}
