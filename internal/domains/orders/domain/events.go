package domain

import "time"

// Event is a domain event emitted by the orders context.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the shared event fields.
type BaseEvent struct {
	OrderID string    `json:"orderId"`
	At      time.Time `json:"occurredAt"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.At }

// OrderPlaced is raised once an order and its stock decrements are stored.
type OrderPlaced struct {
	BaseEvent
	CustomerID string        `json:"customerId,omitempty"`
	Status     Status        `json:"status"`
	Method     PaymentMethod `json:"paymentMethod"`
	Total      float64       `json:"totalPrice"`
	ItemCount  int           `json:"itemCount"`
}

func (OrderPlaced) EventName() string { return "orders.order.placed" }

// OrderStatusChanged is raised by admin status updates.
type OrderStatusChanged struct {
	BaseEvent
	From           Status `json:"from"`
	To             Status `json:"to"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

func (OrderStatusChanged) EventName() string { return "orders.order.status_changed" }

// OrderCancelled is raised after stock has been restored.
type OrderCancelled struct {
	BaseEvent
	Reason string `json:"reason,omitempty"`
}

func (OrderCancelled) EventName() string { return "orders.order.cancelled" }

// OrderDeleted is raised by a hard delete.
type OrderDeleted struct {
	BaseEvent
}

func (OrderDeleted) EventName() string { return "orders.order.deleted" }

// NewOrderPlaced builds the placement event for an order.
func NewOrderPlaced(o *Order, at time.Time) OrderPlaced {
	return OrderPlaced{
		BaseEvent:  BaseEvent{OrderID: o.ID, At: at},
		CustomerID: o.Customer.UserID,
		Status:     o.Status,
		Method:     o.Payment.Method,
		Total:      o.TotalPrice,
		ItemCount:  len(o.Items),
	}
}
