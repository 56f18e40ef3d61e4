package model

import "time"

// OrderStatus describes the operational lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusInDelivery OrderStatus = "in_delivery"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every recognised status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusInDelivery,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is a recognised status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further operational progress is expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Actor is whoever triggered a status change.
type Actor struct {
	ID   int64
	Name string
	Role Role
}

// StatusEntry is one immutable record of the status history.
type StatusEntry struct {
	Status  OrderStatus
	At      time.Time
	Actor   *Actor
	Comment string
}
