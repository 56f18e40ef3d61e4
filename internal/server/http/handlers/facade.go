package handlers

import (
	"context"

	"github.com/polkiloo/orderdesk/internal/delivery"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password, name string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (model.Identity, error)
	CreateStaff(ctx context.Context, caller model.Identity, login, password, name string, role model.Role) (*model.Account, error)
}

// OrderFacade encapsulates customer-facing order operations.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, caller *model.Identity, in usecase.CreateOrderInput) (*model.Order, error)
	TrackOrder(ctx context.Context, number, phone string) (*model.Order, error)
	QuoteDelivery(ctx context.Context, address string) (*delivery.Quote, error)
	CustomerOrders(ctx context.Context, accountID int64) ([]model.Order, error)
}

// AdminFacade provides operator board operations.
type AdminFacade interface {
	ActiveOrders(ctx context.Context, limit int) ([]model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	ChangeStatus(ctx context.Context, caller model.Identity, id string, target model.OrderStatus, comment string) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// OrderDeskFacade aggregates the full set of operations used across handlers.
type OrderDeskFacade interface {
	AuthFacade
	OrderFacade
	AdminFacade
	Health(ctx context.Context) error
}
