package notify

import "time"

type EventKind string

const (
	EventOrderCreated     EventKind = "order.created"
	EventOrderUpdated     EventKind = "order.updated"
	EventOrderCompleted   EventKind = "order.completed"
	EventOrderCancelled   EventKind = "order.cancelled"
	EventPaymentInitiated EventKind = "payment.initiated"
	EventPaymentCompleted EventKind = "payment.completed"
	EventPaymentFailed    EventKind = "payment.failed"
	EventProductCreated   EventKind = "product.created"
	EventProductUpdated   EventKind = "product.updated"
	EventProductDeleted   EventKind = "product.deleted"
)

type Event struct {
	Kind   EventKind      `json:"kind"`
	At     time.Time      `json:"at"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Notifier delivers audit events to an external channel. Implementations
// must never block the caller and must swallow delivery failures.
type Notifier interface {
	Notify(event Event)
}

// Noop discards every event. Used in tests and when no webhook is configured.
type Noop struct{}

func (Noop) Notify(Event) {}
