package dto

import "time"

// CreateOrderRequest is the body of POST /api/orders.
type CreateOrderRequest struct {
	Customer     CustomerRequest    `json:"customer"`
	Items        []ItemRequest      `json:"items"`
	Fulfillment  FulfillmentRequest `json:"fulfillment"`
	Payment      PaymentRequest     `json:"payment"`
	CutleryCount int                `json:"cutlery_count"`
	Comment      string             `json:"comment"`
}

type CustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ItemRequest references a product. Price is the price the client saw, if any.
type ItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     *int64 `json:"price,omitempty"`
}

type FulfillmentRequest struct {
	Type           string `json:"type"`
	Address        string `json:"address,omitempty"`
	PickupLocation string `json:"pickup_location,omitempty"`
}

type PaymentRequest struct {
	Method string `json:"method"`
}

// StatusRequest is the body of PATCH /api/admin/orders/:id/status.
type StatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type PricingResponse struct {
	ProductsTotal  int64    `json:"products_total"`
	DeliveryCost   int64    `json:"delivery_cost"`
	PickupDiscount int64    `json:"pickup_discount"`
	FinalTotal     int64    `json:"final_total"`
	AppliedPromos  []string `json:"applied_promos"`
}

// CreatedOrderResponse acknowledges an accepted order.
type CreatedOrderResponse struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	Pricing     PricingResponse `json:"pricing"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderSummaryResponse is what customers see when tracking or listing orders.
type OrderSummaryResponse struct {
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	Fulfillment   string          `json:"fulfillment_type"`
	PaymentStatus string          `json:"payment_status"`
	Items         []ItemResponse  `json:"items"`
	Pricing       PricingResponse `json:"pricing"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ItemResponse struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Weight    string `json:"weight,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// OrderResponse is the full operator view of an order.
type OrderResponse struct {
	ID            string                `json:"id"`
	OrderNumber   string                `json:"order_number"`
	Source        string                `json:"source"`
	Status        string                `json:"status"`
	Customer      CustomerResponse      `json:"customer"`
	Items         []ItemResponse        `json:"items"`
	Fulfillment   FulfillmentResponse   `json:"fulfillment"`
	Payment       PaymentResponse       `json:"payment"`
	Pricing       PricingResponse       `json:"pricing"`
	Operator      *OperatorResponse     `json:"operator,omitempty"`
	CutleryCount  int                   `json:"cutlery_count"`
	Comment       string                `json:"comment,omitempty"`
	StatusHistory []StatusEntryResponse `json:"status_history"`
	ConfirmedAt   *time.Time            `json:"confirmed_at,omitempty"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
	CancelledAt   *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

type CustomerResponse struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AccountID *int64 `json:"account_id,omitempty"`
}

type FulfillmentResponse struct {
	Type           string   `json:"type"`
	Address        string   `json:"address,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lon            *float64 `json:"lon,omitempty"`
	DistanceKm     float64  `json:"distance_km,omitempty"`
	PickupLocation string   `json:"pickup_location,omitempty"`
}

type PaymentResponse struct {
	Method string     `json:"method"`
	Status string     `json:"status"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

type OperatorResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

type StatusEntryResponse struct {
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
	ActorID   *int64    `json:"actor_id,omitempty"`
	ActorName string    `json:"actor_name,omitempty"`
	ActorRole string    `json:"actor_role,omitempty"`
	Comment   string    `json:"comment,omitempty"`
}

// QuoteResponse previews delivery to an address.
type QuoteResponse struct {
	DistanceKm float64 `json:"distance_km"`
	Cost       int64   `json:"cost"`
}
