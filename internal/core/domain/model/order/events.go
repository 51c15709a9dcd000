package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// EventType names a state change that connected clients must learn about.
type EventType string

const (
	EventOrderCreated   EventType = "order.created"
	EventStatusChanged  EventType = "order.status_changed"
	EventUpsellResolved EventType = "order.upsell_resolved"
	EventReleased       EventType = "order.released"
	EventItemRemoved    EventType = "order.item_removed"
	EventItemScanned    EventType = "order.item_scanned"
	EventLabelAttached  EventType = "order.label_attached"
	EventLabelViewed    EventType = "order.label_viewed"
	EventShipped        EventType = "order.shipped"
)

// Event is a domain event raised by the Order aggregate. The unit of work
// stores pending events in the outbox in the same transaction as the change.
type Event struct {
	ID         kernel.UUID
	Type       EventType
	OrderID    kernel.UUID
	ItemID     *kernel.UUID
	OccurredAt time.Time
	Data       map[string]string
}

func (o *Order) raise(t EventType, itemID *kernel.UUID, at time.Time, data map[string]string) {
	o.events = append(o.events, Event{
		ID:         kernel.NewUUID(),
		Type:       t,
		OrderID:    o.id,
		ItemID:     itemID,
		OccurredAt: at.UTC(),
		Data:       data,
	})
}

// DomainEvents returns the events raised since the order was loaded or
// since the last ClearDomainEvents.
func (o *Order) DomainEvents() []Event {
	out := make([]Event, len(o.events))
	copy(out, o.events)
	return out
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}
