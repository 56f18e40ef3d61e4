package lifecycle

import (
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Machine applies status changes to orders in memory. Persisting the result is the caller's job.
type Machine struct {
	// Strict rejects transitions missing from the table. Admin actors always bypass it.
	Strict bool
}

// NewMachine constructs a machine.
func NewMachine(strict bool) *Machine {
	return &Machine{Strict: strict}
}

// Start sets the initial status, payment state and first history entry of a new order.
func (m *Machine) Start(order *model.Order, actor *model.Actor, now time.Time) model.StatusEntry {
	status := InitialStatus(order.Fulfillment.Type, order.Payment.Method)

	order.Payment.Status = model.PaymentPending
	if status == model.OrderStatusConfirmed && order.Payment.Method == model.PaymentCardOnline {
		order.Payment.Status = model.PaymentPaid
		order.Payment.PaidAt = &now
	}

	order.CreatedAt = now
	return m.apply(order, status, actor, "", now)
}

// Apply moves order to target. Nothing is mutated when an error is returned.
func (m *Machine) Apply(order *model.Order, target model.OrderStatus, actor *model.Actor, comment string, now time.Time) (model.StatusEntry, error) {
	if !target.Valid() {
		return model.StatusEntry{}, fmt.Errorf("%w: %q", domainErrors.ErrInvalidStatus, target)
	}

	if m.Strict && !isAdmin(actor) && !CanTransition(order.Status, target) {
		return model.StatusEntry{}, fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, order.Status, target)
	}

	return m.apply(order, target, actor, comment, now), nil
}

func (m *Machine) apply(order *model.Order, target model.OrderStatus, actor *model.Actor, comment string, now time.Time) model.StatusEntry {
	switch target {
	case model.OrderStatusConfirmed:
		if order.ConfirmedAt == nil {
			order.ConfirmedAt = &now
		}
		if order.Operator == nil && actor != nil && actor.Role.Staff() {
			order.Operator = &model.Operator{ID: actor.ID, Name: actor.Name, ConfirmedAt: *order.ConfirmedAt}
		}
	case model.OrderStatusCompleted:
		if order.CompletedAt == nil {
			order.CompletedAt = &now
		}
		if order.Payment.Status != model.PaymentPaid {
			order.Payment.Status = model.PaymentPaid
			order.Payment.PaidAt = &now
		}
	case model.OrderStatusCancelled:
		if order.CancelledAt == nil {
			order.CancelledAt = &now
		}
		if order.Payment.Status != model.PaymentPaid {
			order.Payment.Status = model.PaymentCancelled
		}
	}

	entry := model.StatusEntry{Status: target, At: now, Comment: comment}
	if actor != nil {
		a := *actor
		entry.Actor = &a
	}

	order.Status = target
	order.UpdatedAt = now
	order.StatusHistory = append(order.StatusHistory, entry)
	return entry
}

func isAdmin(actor *model.Actor) bool {
	return actor != nil && actor.Role == model.RoleAdmin
}
