package notify

import (
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// OrderEvent is the message operators receive about a new order.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	Number        string    `json:"order_number"`
	Status        string    `json:"status"`
	Source        string    `json:"source"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Fulfillment   string    `json:"fulfillment_type"`
	Address       string    `json:"address,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	ItemsCount    int       `json:"items_count"`
	FinalTotal    int64     `json:"final_total"`
	AppliedPromos []string  `json:"applied_promos,omitempty"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewOrderEvent builds the event for a freshly created order.
func NewOrderEvent(order model.Order) OrderEvent {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderEvent{
		Type:          "order.created",
		OrderID:       order.ID,
		Number:        order.Number,
		Status:        string(order.Status),
		Source:        string(order.Source),
		CustomerName:  order.Customer.Name,
		CustomerPhone: order.Customer.Phone,
		Fulfillment:   string(order.Fulfillment.Type),
		Address:       order.Fulfillment.Address,
		PaymentMethod: string(order.Payment.Method),
		ItemsCount:    count,
		FinalTotal:    order.Pricing.FinalTotal,
		AppliedPromos: order.Pricing.AppliedPromos,
		Comment:       order.Comment,
		CreatedAt:     order.CreatedAt,
	}
}
