// Package outboxrepo stores domain events until the relay publishes them.
package outboxrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

type MessageDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventType   string     `gorm:"type:varchar(64);not null"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Payload     []byte     `gorm:"type:jsonb;not null"`
	OccurredAt  time.Time  `gorm:"not null"`
	PublishedAt *time.Time `gorm:"index"`
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

// payload is the JSON document delivered to realtime subscribers.
type payload struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	OrderID    string            `json:"orderId"`
	ItemID     string            `json:"itemId,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
	Data       map[string]string `json:"data,omitempty"`
}

func fromDomain(e order.Event) (MessageDTO, error) {
	p := payload{
		ID:         e.ID.String(),
		Type:       string(e.Type),
		OrderID:    e.OrderID.String(),
		OccurredAt: e.OccurredAt,
		Data:       e.Data,
	}
	if e.ItemID != nil {
		p.ItemID = e.ItemID.String()
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return MessageDTO{}, err
	}

	return MessageDTO{
		ID:         e.ID.Bytes(),
		EventType:  string(e.Type),
		OrderID:    e.OrderID.Bytes(),
		Payload:    raw,
		OccurredAt: e.OccurredAt,
	}, nil
}

func toMessage(dto MessageDTO) (ports.OutboxMessage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	return ports.OutboxMessage{
		ID:         id,
		EventType:  dto.EventType,
		OrderID:    orderID,
		Payload:    dto.Payload,
		OccurredAt: dto.OccurredAt,
	}, nil
}
