package app

import (
	"context"
	"errors"

	"github.com/polkiloo/orderdesk/internal/delivery"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// HealthChecker reports storage availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// OrderDesk adapts use cases to the HTTP facade and resolves callers into actors.
type OrderDesk struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
	status *usecase.StatusUseCase
	health HealthChecker
}

func NewOrderDesk(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, status *usecase.StatusUseCase, health HealthChecker) *OrderDesk {
	return &OrderDesk{auth: auth, orders: orders, status: status, health: health}
}

func (f *OrderDesk) Register(ctx context.Context, login, password, name string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password, name)
	return token, err
}

func (f *OrderDesk) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *OrderDesk) ParseToken(token string) (model.Identity, error) {
	return f.auth.ParseToken(token)
}

func (f *OrderDesk) CreateStaff(ctx context.Context, caller model.Identity, login, password, name string, role model.Role) (*model.Account, error) {
	return f.auth.CreateStaff(ctx, caller, login, password, name, role)
}

// PlaceOrder creates an order on behalf of caller; nil caller is an anonymous guest.
func (f *OrderDesk) PlaceOrder(ctx context.Context, caller *model.Identity, in usecase.CreateOrderInput) (*model.Order, error) {
	var actor *model.Actor
	if caller != nil {
		var err error
		if actor, err = f.actor(ctx, *caller); err != nil {
			return nil, err
		}
	}
	if in.Source == model.SourceOperator && (actor == nil || !actor.Role.Staff()) {
		return nil, domainErrors.ErrForbidden
	}
	return f.orders.Create(ctx, in, actor)
}

func (f *OrderDesk) TrackOrder(ctx context.Context, number, phone string) (*model.Order, error) {
	return f.orders.Track(ctx, number, phone)
}

func (f *OrderDesk) QuoteDelivery(ctx context.Context, address string) (*delivery.Quote, error) {
	return f.orders.Quote(ctx, address)
}

func (f *OrderDesk) CustomerOrders(ctx context.Context, accountID int64) ([]model.Order, error) {
	return f.orders.ListByAccount(ctx, accountID)
}

func (f *OrderDesk) ActiveOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.ListActive(ctx, limit)
}

func (f *OrderDesk) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *OrderDesk) ChangeStatus(ctx context.Context, caller model.Identity, id string, target model.OrderStatus, comment string) (*model.Order, error) {
	actor, err := f.actor(ctx, caller)
	if err != nil {
		return nil, err
	}
	return f.status.ChangeStatus(ctx, id, target, actor, comment)
}

func (f *OrderDesk) DeleteOrder(ctx context.Context, id string) error {
	return f.status.DeleteCancelled(ctx, id)
}

func (f *OrderDesk) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

// actor loads the caller account. A token for a removed account is treated as invalid.
func (f *OrderDesk) actor(ctx context.Context, identity model.Identity) (*model.Actor, error) {
	actor, err := f.auth.Actor(ctx, identity)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, domainErrors.ErrInvalidCredentials
	}
	return actor, err
}
