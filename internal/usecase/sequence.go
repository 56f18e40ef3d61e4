package usecase

import (
	"context"
	"fmt"

	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

// SequenceAllocator issues human-readable order numbers.
type SequenceAllocator struct {
	sequences repository.SequenceRepository
}

// NewSequenceAllocator constructs SequenceAllocator.
func NewSequenceAllocator(sequences repository.SequenceRepository) *SequenceAllocator {
	return &SequenceAllocator{sequences: sequences}
}

// Allocate returns the next number for prefix together with its numeric sequence.
func (a *SequenceAllocator) Allocate(ctx context.Context, prefix string) (string, int64, error) {
	seq, err := a.sequences.Next(ctx, prefix)
	if err != nil {
		return "", 0, err
	}
	return FormatOrderNumber(prefix, seq), seq, nil
}

// NextOrderNumber returns the next number for prefix.
func (a *SequenceAllocator) NextOrderNumber(ctx context.Context, prefix string) (string, error) {
	number, _, err := a.Allocate(ctx, prefix)
	return number, err
}

// FormatOrderNumber renders prefix and seq as "D-007". Sequences above 999 keep all digits.
func FormatOrderNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}
