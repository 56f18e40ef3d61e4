package model

import "time"

// FulfillmentType selects the pricing branch and initial status rule.
type FulfillmentType string

const (
	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

// Valid reports whether t is a known fulfillment type.
func (t FulfillmentType) Valid() bool {
	return t == FulfillmentDelivery || t == FulfillmentPickup
}

// PaymentMethod describes how the customer pays.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCardOnline PaymentMethod = "card_online"
	PaymentCardOnSite PaymentMethod = "card_on_site"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCardOnline, PaymentCardOnSite:
		return true
	}
	return false
}

// PaymentStatus tracks settlement of the order amount.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// OrderSource distinguishes customer-facing orders from operator-entered ones.
type OrderSource string

const (
	SourceWeb      OrderSource = "web"
	SourceOperator OrderSource = "operator"
)

// Customer identifies who placed the order.
type Customer struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AccountID *int64 `json:"account_id,omitempty"`
}

// LineItem is a catalog snapshot taken when the order is created.
type LineItem struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Weight    string `json:"weight,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// Subtotal returns unit price multiplied by quantity.
func (i LineItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Fulfillment holds delivery or pickup details.
type Fulfillment struct {
	Type           FulfillmentType
	Address        string
	Coordinates    *Coordinates
	DistanceKm     float64
	PickupLocation string
}

// Payment describes method and settlement state.
type Payment struct {
	Method PaymentMethod
	Status PaymentStatus
	PaidAt *time.Time
}

// Pricing keeps FinalTotal == ProductsTotal + DeliveryCost - PickupDiscount.
type Pricing struct {
	ProductsTotal  int64
	DeliveryCost   int64
	PickupDiscount int64
	FinalTotal     int64
	AppliedPromos  []string
}

// Balanced reports whether the pricing invariant holds.
func (p Pricing) Balanced() bool {
	return p.FinalTotal >= 0 && p.FinalTotal == p.ProductsTotal+p.DeliveryCost-p.PickupDiscount
}

// Operator records who confirmed the order.
type Operator struct {
	ID          int64
	Name        string
	ConfirmedAt time.Time
}

// Order is the aggregate root of the intake flow.
type Order struct {
	ID            string
	Number        string
	Prefix        string
	Sequence      int64
	Source        OrderSource
	Customer      Customer
	Items         []LineItem
	Fulfillment   Fulfillment
	Payment       Payment
	Pricing       Pricing
	Status        OrderStatus
	StatusHistory []StatusEntry
	Operator      *Operator
	CutleryCount  int
	Comment       string
	ConfirmedAt   *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LastEntry returns the most recent history entry.
func (o *Order) LastEntry() (StatusEntry, bool) {
	if len(o.StatusHistory) == 0 {
		return StatusEntry{}, false
	}
	return o.StatusHistory[len(o.StatusHistory)-1], true
}
