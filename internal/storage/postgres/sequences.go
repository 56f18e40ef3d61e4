package postgres

import (
	"context"
	"fmt"
)

// Next increments the counter for prefix. The persisted maximum is re-read on every call,
// so a counter that fell behind the orders table catches up instead of reissuing numbers.
func (r *sequenceRepository) Next(ctx context.Context, prefix string) (int64, error) {
	const query = `INSERT INTO order_sequences (prefix, last_value)
                   VALUES ($1, COALESCE((SELECT MAX(sequence) FROM orders WHERE prefix=$1), 0) + 1)
                   ON CONFLICT (prefix) DO UPDATE
                   SET last_value = GREATEST(order_sequences.last_value + 1, EXCLUDED.last_value)
                   RETURNING last_value`
	var value int64
	if err := r.storage.querier(ctx).QueryRow(ctx, query, prefix).Scan(&value); err != nil {
		return 0, fmt.Errorf("next sequence for %q: %w", prefix, err)
	}
	return value, nil
}
