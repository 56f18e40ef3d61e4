// Package facades holds HTTP facade stubs shared by server and router tests.
package facades

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/orderdesk/internal/delivery"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// AuthFacadeStub provides controllable behaviour for auth endpoints.
type AuthFacadeStub struct {
	RegisterFn     func(ctx context.Context, login, password, name string) (string, error)
	AuthenticateFn func(ctx context.Context, login, password string) (string, error)
	ParseFn        func(token string) (model.Identity, error)
	CreateStaffFn  func(ctx context.Context, caller model.Identity, login, password, name string, role model.Role) (*model.Account, error)
}

// Register delegates to RegisterFn or issues a fixed token.
func (s AuthFacadeStub) Register(ctx context.Context, login, password, name string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password, name)
	}
	return "token", nil
}

// Authenticate delegates to AuthenticateFn or issues a fixed token.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken delegates to ParseFn or returns a customer identity.
func (s AuthFacadeStub) ParseToken(token string) (model.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.Identity{AccountID: 1, Role: model.RoleCustomer}, nil
}

// CreateStaff delegates to CreateStaffFn or echoes the request as an account.
func (s AuthFacadeStub) CreateStaff(ctx context.Context, caller model.Identity, login, password, name string, role model.Role) (*model.Account, error) {
	if s.CreateStaffFn != nil {
		return s.CreateStaffFn(ctx, caller, login, password, name, role)
	}
	return &model.Account{ID: 100, Login: login, Name: name, Role: role}, nil
}

// PlaceCall records one PlaceOrder invocation.
type PlaceCall struct {
	Caller *model.Identity
	Input  usecase.CreateOrderInput
}

// OrderFacadeStub simulates customer-facing order operations.
type OrderFacadeStub struct {
	PlaceFn  func(ctx context.Context, caller *model.Identity, in usecase.CreateOrderInput) (*model.Order, error)
	TrackFn  func(ctx context.Context, number, phone string) (*model.Order, error)
	QuoteFn  func(ctx context.Context, address string) (*delivery.Quote, error)
	OrdersFn func(ctx context.Context, accountID int64) ([]model.Order, error)

	mu    sync.Mutex
	calls []PlaceCall
}

// PlaceOrder records the call and delegates to PlaceFn or returns SampleOrder.
func (s *OrderFacadeStub) PlaceOrder(ctx context.Context, caller *model.Identity, in usecase.CreateOrderInput) (*model.Order, error) {
	s.mu.Lock()
	s.calls = append(s.calls, PlaceCall{Caller: caller, Input: in})
	s.mu.Unlock()

	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, caller, in)
	}
	order := SampleOrder()
	order.Source = in.Source
	return &order, nil
}

// PlaceCalls returns recorded PlaceOrder invocations.
func (s *OrderFacadeStub) PlaceCalls() []PlaceCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PlaceCall(nil), s.calls...)
}

// TrackOrder delegates to TrackFn or returns SampleOrder.
func (s *OrderFacadeStub) TrackOrder(ctx context.Context, number, phone string) (*model.Order, error) {
	if s.TrackFn != nil {
		return s.TrackFn(ctx, number, phone)
	}
	order := SampleOrder()
	return &order, nil
}

// QuoteDelivery delegates to QuoteFn or returns a fixed quote.
func (s *OrderFacadeStub) QuoteDelivery(ctx context.Context, address string) (*delivery.Quote, error) {
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx, address)
	}
	return &delivery.Quote{DistanceKm: 3.4, Cost: 185}, nil
}

// CustomerOrders delegates to OrdersFn or returns SampleOrder.
func (s *OrderFacadeStub) CustomerOrders(ctx context.Context, accountID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, accountID)
	}
	return []model.Order{SampleOrder()}, nil
}

// StatusCall records one ChangeStatus invocation.
type StatusCall struct {
	Caller  model.Identity
	ID      string
	Target  model.OrderStatus
	Comment string
}

// AdminFacadeStub simulates operator board operations.
type AdminFacadeStub struct {
	ActiveFn func(ctx context.Context, limit int) ([]model.Order, error)
	OrderFn  func(ctx context.Context, id string) (*model.Order, error)
	StatusFn func(ctx context.Context, caller model.Identity, id string, target model.OrderStatus, comment string) (*model.Order, error)
	DeleteFn func(ctx context.Context, id string) error

	mu          sync.Mutex
	limits      []int
	statusCalls []StatusCall
}

// ActiveOrders records limit and delegates to ActiveFn.
func (s *AdminFacadeStub) ActiveOrders(ctx context.Context, limit int) ([]model.Order, error) {
	s.mu.Lock()
	s.limits = append(s.limits, limit)
	s.mu.Unlock()

	if s.ActiveFn != nil {
		return s.ActiveFn(ctx, limit)
	}
	return []model.Order{SampleOrder()}, nil
}

// Limits returns limits passed to ActiveOrders.
func (s *AdminFacadeStub) Limits() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.limits...)
}

// Order delegates to OrderFn or returns SampleOrder with id.
func (s *AdminFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	order := SampleOrder()
	order.ID = id
	return &order, nil
}

// ChangeStatus records the call and delegates to StatusFn.
func (s *AdminFacadeStub) ChangeStatus(ctx context.Context, caller model.Identity, id string, target model.OrderStatus, comment string) (*model.Order, error) {
	s.mu.Lock()
	s.statusCalls = append(s.statusCalls, StatusCall{Caller: caller, ID: id, Target: target, Comment: comment})
	s.mu.Unlock()

	if s.StatusFn != nil {
		return s.StatusFn(ctx, caller, id, target, comment)
	}
	order := SampleOrder()
	order.ID, order.Status = id, target
	return &order, nil
}

// StatusCalls returns recorded ChangeStatus invocations.
func (s *AdminFacadeStub) StatusCalls() []StatusCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StatusCall(nil), s.statusCalls...)
}

// DeleteOrder delegates to DeleteFn.
func (s *AdminFacadeStub) DeleteOrder(ctx context.Context, id string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// OrderDeskFacadeStub combines every facade stub for router tests.
type OrderDeskFacadeStub struct {
	AuthFacadeStub
	*OrderFacadeStub
	*AdminFacadeStub
	HealthErr error
}

// NewOrderDeskFacadeStub returns a stub with default behaviour everywhere.
func NewOrderDeskFacadeStub() *OrderDeskFacadeStub {
	return &OrderDeskFacadeStub{OrderFacadeStub: &OrderFacadeStub{}, AdminFacadeStub: &AdminFacadeStub{}}
}

// Health returns HealthErr.
func (s *OrderDeskFacadeStub) Health(context.Context) error {
	return s.HealthErr
}

// SampleOrder returns a fully populated pickup order.
func SampleOrder() model.Order {
	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	accountID := int64(1)
	return model.Order{
		ID:       "6f1c3f5e-8f7d-4f53-9a0f-8e2f3c4b5a61",
		Number:   "P-001",
		Prefix:   "P",
		Sequence: 1,
		Source:   model.SourceWeb,
		Customer: model.Customer{Name: "Anna", Phone: "+79991234567", AccountID: &accountID},
		Items: []model.LineItem{
			{ProductID: "pizza", Title: "Pizza", UnitPrice: 600, Quantity: 2},
		},
		Fulfillment: model.Fulfillment{Type: model.FulfillmentPickup, PickupLocation: "Main hall"},
		Payment:     model.Payment{Method: model.PaymentCash, Status: model.PaymentPending},
		Pricing: model.Pricing{
			ProductsTotal:  1200,
			PickupDiscount: 120,
			FinalTotal:     1080,
		},
		Status: model.OrderStatusPending,
		StatusHistory: []model.StatusEntry{
			{Status: model.OrderStatusPending, At: created},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}
