package lifecycle

import (
	"slices"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:    {model.OrderStatusConfirmed, model.OrderStatusPreparing, model.OrderStatusCancelled},
	model.OrderStatusConfirmed:  {model.OrderStatusPreparing, model.OrderStatusReady, model.OrderStatusCancelled},
	model.OrderStatusPreparing:  {model.OrderStatusReady, model.OrderStatusCancelled},
	model.OrderStatusReady:      {model.OrderStatusInDelivery, model.OrderStatusCompleted, model.OrderStatusCancelled},
	model.OrderStatusInDelivery: {model.OrderStatusCompleted, model.OrderStatusCancelled},
}

// CanTransition reports whether the table allows moving from current to target.
// Re-applying the current status is always allowed.
func CanTransition(current, target model.OrderStatus) bool {
	if current == target {
		return true
	}
	return slices.Contains(transitions[current], target)
}

// NextStatuses lists the statuses reachable from current.
func NextStatuses(current model.OrderStatus) []model.OrderStatus {
	return slices.Clone(transitions[current])
}

// InitialStatus decides where a new order starts.
func InitialStatus(fulfillment model.FulfillmentType, method model.PaymentMethod) model.OrderStatus {
	if fulfillment == model.FulfillmentPickup && method == model.PaymentCardOnline {
		return model.OrderStatusConfirmed
	}
	return model.OrderStatusPending
}
