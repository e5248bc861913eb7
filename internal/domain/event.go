package domain

import (
	"encoding/json"
	"time"
)

// EventType defines the type of domain event.
type EventType string

const (
	EventOrderPlaced        EventType = "ORDER_PLACED"
	EventOrderStatusChanged EventType = "ORDER_STATUS_CHANGED"
)

// DomainEvent is an immutable record of something that happened to an
// aggregate. Payload holds the JSON-encoded event body.
type DomainEvent struct {
	EventID       string    `json:"event_id"`
	EventType     EventType `json:"event_type"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   string    `json:"aggregate_id"`
	Payload       []byte    `json:"payload"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderEventPayload is the payload of order lifecycle events.
type OrderEventPayload struct {
	OrderID        int64       `json:"order_id"`
	UserID         string      `json:"user_id"`
	ProductName    string      `json:"product_name"`
	Amount         string      `json:"amount"`
	Status         OrderStatus `json:"status"`
	PreviousStatus OrderStatus `json:"previous_status,omitempty"`
}

// ToJSON converts payload to JSON bytes.
func (p OrderEventPayload) ToJSON() ([]byte, error) {
	return json.Marshal(p)
}

// DecodeOrderEvent decodes the payload of an order event.
func DecodeOrderEvent(e *DomainEvent) (OrderEventPayload, error) {
	var p OrderEventPayload
	err := json.Unmarshal(e.Payload, &p)
	return p, err
}
