package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

const orderColumns = `id, number, prefix, sequence, source, customer, items, fulfillment_type, address, lat, lon,
    distance_km, pickup_location, payment_method, payment_status, paid_at, products_total, delivery_cost,
    pickup_discount, final_total, applied_promos, status, operator_id, operator_name, operator_confirmed_at,
    cutlery_count, comment, confirmed_at, completed_at, cancelled_at, created_at, updated_at`

const historyColumns = `order_id, status, at, actor_id, actor_name, actor_role, comment`

type scanner interface {
	Scan(dest ...any) error
}

// Create inserts the order row and its initial history inside one transaction.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("encode customer: %w", err)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	promos, err := json.Marshal(promosOrEmpty(order.Pricing.AppliedPromos))
	if err != nil {
		return fmt.Errorf("encode promos: %w", err)
	}

	var lat, lon *float64
	if c := order.Fulfillment.Coordinates; c != nil {
		lat, lon = &c.Lat, &c.Lon
	}

	var (
		operatorID          *int64
		operatorName        *string
		operatorConfirmedAt *time.Time
	)
	if op := order.Operator; op != nil {
		operatorID, operatorName, operatorConfirmedAt = &op.ID, &op.Name, &op.ConfirmedAt
	}

	const insertOrder = `INSERT INTO orders (id, number, prefix, sequence, source, account_id, customer_phone, customer, items,
        fulfillment_type, address, lat, lon, distance_km, pickup_location, payment_method, payment_status, paid_at,
        products_total, delivery_cost, pickup_discount, final_total, applied_promos, status, operator_id, operator_name,
        operator_confirmed_at, cutlery_count, comment, confirmed_at, completed_at, cancelled_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22,
        $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34)`

	return r.storage.RunInTx(ctx, func(ctx context.Context) error {
		q := r.storage.querier(ctx)
		_, err := q.Exec(ctx, insertOrder,
			order.ID, order.Number, order.Prefix, order.Sequence, order.Source, order.Customer.AccountID, order.Customer.Phone,
			customer, items, order.Fulfillment.Type, order.Fulfillment.Address, lat, lon, order.Fulfillment.DistanceKm,
			order.Fulfillment.PickupLocation, order.Payment.Method, order.Payment.Status, order.Payment.PaidAt,
			order.Pricing.ProductsTotal, order.Pricing.DeliveryCost, order.Pricing.PickupDiscount, order.Pricing.FinalTotal,
			promos, order.Status, operatorID, operatorName, operatorConfirmedAt, order.CutleryCount, order.Comment,
			order.ConfirmedAt, order.CompletedAt, order.CancelledAt, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrOrderNumberConflict
			}
			return err
		}

		for _, entry := range order.StatusHistory {
			if err := insertHistory(ctx, q, order.ID, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id string) (*model.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id)
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE number=$1`, number)
}

func (r *orderRepository) getOne(ctx context.Context, query string, arg any) (*model.Order, error) {
	q := r.storage.querier(ctx)
	order, err := scanOrder(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}

	history, err := loadHistory(ctx, q, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.StatusHistory = history[order.ID]
	return order, nil
}

func (r *orderRepository) ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE account_id=$1 ORDER BY created_at DESC`, accountID)
}

// ListActive returns non-terminal orders, oldest first.
func (r *orderRepository) ListActive(ctx context.Context, limit int) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders
        WHERE status NOT IN ('completed', 'cancelled')
        ORDER BY created_at
        LIMIT $1`, limit)
}

func (r *orderRepository) list(ctx context.Context, query string, arg any) ([]model.Order, error) {
	q := r.storage.querier(ctx)
	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}

	var (
		result []model.Order
		ids    []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		result = append(result, *o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return result, nil
	}

	history, err := loadHistory(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].StatusHistory = history[result[i].ID]
	}
	return result, nil
}

// SaveTransition updates status-derived columns and appends entry to the history.
func (r *orderRepository) SaveTransition(ctx context.Context, order *model.Order, entry model.StatusEntry) error {
	var (
		operatorID          *int64
		operatorName        *string
		operatorConfirmedAt *time.Time
	)
	if op := order.Operator; op != nil {
		operatorID, operatorName, operatorConfirmedAt = &op.ID, &op.Name, &op.ConfirmedAt
	}

	const updateOrder = `UPDATE orders SET status=$2, payment_status=$3, paid_at=$4, operator_id=$5, operator_name=$6,
        operator_confirmed_at=$7, confirmed_at=$8, completed_at=$9, cancelled_at=$10, updated_at=$11
        WHERE id=$1`

	return r.storage.RunInTx(ctx, func(ctx context.Context) error {
		q := r.storage.querier(ctx)
		tag, err := q.Exec(ctx, updateOrder, order.ID, order.Status, order.Payment.Status, order.Payment.PaidAt,
			operatorID, operatorName, operatorConfirmedAt, order.ConfirmedAt, order.CompletedAt, order.CancelledAt,
			order.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrOrderNotFound
		}
		return insertHistory(ctx, q, order.ID, entry)
	})
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.querier(ctx).Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

func insertHistory(ctx context.Context, q querier, orderID string, entry model.StatusEntry) error {
	var (
		actorID   *int64
		actorName *string
		actorRole *string
	)
	if a := entry.Actor; a != nil {
		role := string(a.Role)
		actorID, actorName, actorRole = &a.ID, &a.Name, &role
	}

	const query = `INSERT INTO order_status_history (` + historyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := q.Exec(ctx, query, orderID, entry.Status, entry.At, actorID, actorName, actorRole, entry.Comment); err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return nil
}

func loadHistory(ctx context.Context, q querier, ids []string) (map[string][]model.StatusEntry, error) {
	const query = `SELECT ` + historyColumns + ` FROM order_status_history WHERE order_id = ANY($1) ORDER BY id`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]model.StatusEntry, len(ids))
	for rows.Next() {
		var (
			orderID   string
			entry     model.StatusEntry
			actorID   *int64
			actorName *string
			actorRole *string
		)
		if err := rows.Scan(&orderID, &entry.Status, &entry.At, &actorID, &actorName, &actorRole, &entry.Comment); err != nil {
			return nil, err
		}
		if actorID != nil {
			entry.Actor = &model.Actor{ID: *actorID}
			if actorName != nil {
				entry.Actor.Name = *actorName
			}
			if actorRole != nil {
				entry.Actor.Role = model.Role(*actorRole)
			}
		}
		result[orderID] = append(result[orderID], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOrder(row scanner) (*model.Order, error) {
	var (
		o                   model.Order
		customer, items     []byte
		promos              []byte
		lat, lon            *float64
		operatorID          *int64
		operatorName        *string
		operatorConfirmedAt *time.Time
	)

	err := row.Scan(
		&o.ID, &o.Number, &o.Prefix, &o.Sequence, &o.Source, &customer, &items, &o.Fulfillment.Type,
		&o.Fulfillment.Address, &lat, &lon, &o.Fulfillment.DistanceKm, &o.Fulfillment.PickupLocation,
		&o.Payment.Method, &o.Payment.Status, &o.Payment.PaidAt, &o.Pricing.ProductsTotal, &o.Pricing.DeliveryCost,
		&o.Pricing.PickupDiscount, &o.Pricing.FinalTotal, &promos, &o.Status, &operatorID, &operatorName,
		&operatorConfirmedAt, &o.CutleryCount, &o.Comment, &o.ConfirmedAt, &o.CompletedAt, &o.CancelledAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(customer, &o.Customer); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if len(promos) > 0 {
		if err := json.Unmarshal(promos, &o.Pricing.AppliedPromos); err != nil {
			return nil, fmt.Errorf("decode promos: %w", err)
		}
	}
	if lat != nil && lon != nil {
		o.Fulfillment.Coordinates = &model.Coordinates{Lat: *lat, Lon: *lon}
	}
	if operatorID != nil {
		o.Operator = &model.Operator{ID: *operatorID}
		if operatorName != nil {
			o.Operator.Name = *operatorName
		}
		if operatorConfirmedAt != nil {
			o.Operator.ConfirmedAt = *operatorConfirmedAt
		}
	}
	return &o, nil
}

func promosOrEmpty(promos []string) []string {
	if promos == nil {
		return []string{}
	}
	return promos
}
