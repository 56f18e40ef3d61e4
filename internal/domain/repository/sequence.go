package repository

import "context"

// SequenceRepository issues per-prefix order sequence numbers.
type SequenceRepository interface {
	// Next atomically increments the counter for prefix and returns the new value.
	Next(ctx context.Context, prefix string) (int64, error)
}
