package repository

import (
	"context"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create inserts the order together with its status history.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	// GetForUpdate loads the order and locks it until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error)
	ListActive(ctx context.Context, limit int) ([]model.Order, error)
	// SaveTransition persists status-derived fields and appends entry to the history.
	SaveTransition(ctx context.Context, order *model.Order, entry model.StatusEntry) error
	Delete(ctx context.Context, id string) error
}
