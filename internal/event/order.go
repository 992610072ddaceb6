package event

import "time"

const (
	OrderStatusTopic = "orders.status"

	EventOrderCreated               = "order.created"
	EventOrderStatusChanged         = "order.status_changed"
	EventOrderCustomerStatusChanged = "order.customer_status_changed"
)

// OrderStatusEvent is published on every order creation and status
// mutation. The admin board subscriber keeps its cache fresh from these,
// and other surfaces can consume the same topic.
type OrderStatusEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	OrderID        string    `json:"order_id"`
	CustomerID     string    `json:"customer_id,omitempty"`
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	CustomerStatus string    `json:"customer_status,omitempty"`
	PickupTime     time.Time `json:"pickup_time,omitempty"`
}
