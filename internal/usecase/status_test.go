package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

var (
	operator = &model.Actor{ID: 7, Name: "Olga", Role: model.RoleOperator}
	admin    = &model.Actor{ID: 1, Name: "Root", Role: model.RoleAdmin}
)

func newStatusUseCase(f *fixture) *StatusUseCase {
	uc := NewStatusUseCase(f.orders, f.uow, f.machine, f.observer, discardLogger())
	uc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	return uc
}

func createPending(t *testing.T, f *fixture) *model.Order {
	t.Helper()
	order, err := f.uc.Create(context.Background(), pickupInput(item("pizza", 1)), nil)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, order.Status)
	return order
}

func TestChangeStatusConfirmRecordsOperator(t *testing.T) {
	f := newFixture()
	uc := newStatusUseCase(f)
	order := createPending(t, f)

	updated, err := uc.ChangeStatus(context.Background(), order.ID, model.OrderStatusConfirmed, operator, "called back")
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)
	require.NotNil(t, updated.Operator)
	assert.Equal(t, int64(7), updated.Operator.ID)
	assert.Equal(t, "Olga", updated.Operator.Name)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, "called back", updated.StatusHistory[1].Comment)

	stored, err := f.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, stored.Status)
	assert.Len(t, f.orders.Transitions, 1)
	assert.Equal(t, [][2]model.OrderStatus{{model.OrderStatusPending, model.OrderStatusConfirmed}}, f.observer.Changes)
}

func TestChangeStatusCompletedTwiceKeepsTimestamp(t *testing.T) {
	f := newFixture()
	uc := newStatusUseCase(f)
	order := createPending(t, f)

	for _, status := range []model.OrderStatus{model.OrderStatusConfirmed, model.OrderStatusReady} {
		_, err := uc.ChangeStatus(context.Background(), order.ID, status, operator, "")
		require.NoError(t, err)
	}

	first, err := uc.ChangeStatus(context.Background(), order.ID, model.OrderStatusCompleted, operator, "")
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)
	assert.Equal(t, model.PaymentPaid, first.Payment.Status)
	completedAt := *first.CompletedAt
	historyLen := len(first.StatusHistory)

	uc.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
	second, err := uc.ChangeStatus(context.Background(), order.ID, model.OrderStatusCompleted, operator, "again")
	require.NoError(t, err)
	assert.Equal(t, completedAt, *second.CompletedAt)
	assert.Len(t, second.StatusHistory, historyLen+1)
	last, _ := second.LastEntry()
	assert.Equal(t, model.OrderStatusCompleted, last.Status)
}

func TestChangeStatusRejectsIllegalTransition(t *testing.T) {
	f := newFixture()
	uc := newStatusUseCase(f)
	order := createPending(t, f)

	_, err := uc.ChangeStatus(context.Background(), order.ID, model.OrderStatusInDelivery, operator, "")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidTransition)

	stored, err := f.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, stored.Status)
	assert.Len(t, stored.StatusHistory, 1)
	assert.Empty(t, f.observer.Changes)

	updated, err := uc.ChangeStatus(context.Background(), order.ID, model.OrderStatusInDelivery, admin, "manual fix")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusInDelivery, updated.Status)
}

func TestChangeStatusUnknownStatus(t *testing.T) {
	f := newFixture()
	uc := newStatusUseCase(f)
	order := createPending(t, f)

	_, err := uc.ChangeStatus(context.Background(), order.ID, "lost", operator, "")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidStatus)
	assert.Equal(t, domainErrors.KindState, domainErrors.KindOf(err))
}

func TestChangeStatusForbiddenForCustomers(t *testing.T) {
	f := newFixture()
	uc := newStatusUseCase(f)
	order := createPending(t, f)

	_, err := uc.ChangeStatus(context.Background(), order.ID, model.OrderStatusCancelled, &model.Actor{ID: 3, Role: model.RoleCustomer}, "")
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
	assert.Equal(t, 1, f.uow.Calls())
}

func TestChangeStatusBySystem(t *testing.T) {
	f := newFixture()
	uc := newStatusUseCase(f)
	order := createPending(t, f)

	updated, err := uc.ChangeStatus(context.Background(), order.ID, model.OrderStatusCancelled, nil, "timeout")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCancelled, updated.Payment.Status)
	require.NotNil(t, updated.CancelledAt)
	assert.Nil(t, updated.StatusHistory[1].Actor)
}

func TestChangeStatusMissingOrder(t *testing.T) {
	f := newFixture()
	uc := newStatusUseCase(f)

	_, err := uc.ChangeStatus(context.Background(), "6f1c2b8e-1d7a-4c3e-9a52-0c7f4e1b2a90", model.OrderStatusConfirmed, operator, "")
	assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
}

func TestStatusUseCaseMalformedID(t *testing.T) {
	f := newFixture()
	uc := newStatusUseCase(f)
	createPending(t, f)
	calls := f.uow.Calls()

	_, err := uc.ChangeStatus(context.Background(), "abc", model.OrderStatusConfirmed, operator, "")
	assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)

	err = uc.DeleteCancelled(context.Background(), "abc")
	assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)

	assert.Equal(t, calls, f.uow.Calls())
	assert.Empty(t, f.orders.Transitions)
}

func TestChangeStatusPersistFailure(t *testing.T) {
	f := newFixture()
	uc := newStatusUseCase(f)
	order := createPending(t, f)
	f.orders.SaveTransitionFn = func(context.Context, *model.Order, model.StatusEntry) error {
		return errors.New("write failed")
	}

	_, err := uc.ChangeStatus(context.Background(), order.ID, model.OrderStatusConfirmed, operator, "")
	assert.EqualError(t, err, "write failed")
	assert.Empty(t, f.observer.Changes)
}

func TestDeleteCancelled(t *testing.T) {
	f := newFixture()
	uc := newStatusUseCase(f)
	order := createPending(t, f)

	err := uc.DeleteCancelled(context.Background(), order.ID)
	assert.ErrorIs(t, err, domainErrors.ErrOrderNotCancelled)

	_, err = uc.ChangeStatus(context.Background(), order.ID, model.OrderStatusCancelled, operator, "")
	require.NoError(t, err)

	require.NoError(t, uc.DeleteCancelled(context.Background(), order.ID))
	assert.Equal(t, []string{order.ID}, f.orders.Deleted)

	err = uc.DeleteCancelled(context.Background(), order.ID)
	assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
}
