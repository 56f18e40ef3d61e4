package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/lifecycle"
)

// StatusUseCase drives persisted orders through the lifecycle.
type StatusUseCase struct {
	orders   repository.OrderRepository
	uow      repository.UnitOfWork
	machine  *lifecycle.Machine
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// NewStatusUseCase constructs StatusUseCase.
func NewStatusUseCase(orders repository.OrderRepository, uow repository.UnitOfWork, machine *lifecycle.Machine, observer Observer, logger *slog.Logger) *StatusUseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusUseCase{orders: orders, uow: uow, machine: machine, observer: observer, logger: logger, now: time.Now}
}

// ChangeStatus locks the order, applies target and stores the row and history entry together.
// A nil actor is treated as the system; customers are rejected.
func (u *StatusUseCase) ChangeStatus(ctx context.Context, orderID string, target model.OrderStatus, actor *model.Actor, comment string) (*model.Order, error) {
	if actor != nil && !actor.Role.Staff() {
		return nil, domainErrors.ErrForbidden
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, domainErrors.ErrOrderNotFound
	}

	var (
		order *model.Order
		from  model.OrderStatus
	)
	err := u.uow.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = u.orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		from = order.Status

		entry, err := u.machine.Apply(order, target, actor, comment, u.now().UTC())
		if err != nil {
			return err
		}
		return u.orders.SaveTransition(ctx, order, entry)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("order status changed",
		slog.String("order_id", order.ID),
		slog.String("from", string(from)),
		slog.String("to", string(order.Status)),
	)
	u.observer.StatusChanged(from, order.Status)
	return order, nil
}

// DeleteCancelled removes an order that has been cancelled.
func (u *StatusUseCase) DeleteCancelled(ctx context.Context, orderID string) error {
	if _, err := uuid.Parse(orderID); err != nil {
		return domainErrors.ErrOrderNotFound
	}
	err := u.uow.RunInTx(ctx, func(ctx context.Context) error {
		order, err := u.orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderStatusCancelled {
			return domainErrors.ErrOrderNotCancelled
		}
		return u.orders.Delete(ctx, orderID)
	})
	if err != nil {
		return err
	}

	u.logger.Info("order deleted", slog.String("order_id", orderID))
	return nil
}
