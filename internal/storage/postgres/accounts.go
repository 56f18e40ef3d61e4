package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

const accountColumns = `id, login, name, role, password_hash, orders_count, total_spent, created_at`

func (r *accountRepository) Create(ctx context.Context, account model.Account) (*model.Account, error) {
	const query = `INSERT INTO accounts (login, name, role, password_hash) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.storage.querier(ctx).QueryRow(ctx, query, account.Login, account.Name, account.Role, account.PasswordHash).
		Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE login=$1`, login)
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id)
}

func (r *accountRepository) get(ctx context.Context, query string, arg any) (*model.Account, error) {
	var a model.Account
	err := r.storage.querier(ctx).QueryRow(ctx, query, arg).
		Scan(&a.ID, &a.Login, &a.Name, &a.Role, &a.PasswordHash, &a.OrdersCount, &a.TotalSpent, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// AddOrderStats increments the order counter and spent total of an account.
func (r *accountRepository) AddOrderStats(ctx context.Context, id int64, spent int64) error {
	const query = `UPDATE accounts SET orders_count = orders_count + 1, total_spent = total_spent + $2 WHERE id=$1`
	tag, err := r.storage.querier(ctx).Exec(ctx, query, id, spent)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
