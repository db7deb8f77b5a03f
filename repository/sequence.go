package repository

import "context"

// Sequencer hands out the next display order for items created by one user.
type Sequencer interface {
	Next(ctx context.Context, creatorID string) (int64, error)
}

// MaxOrderReader exposes the highest display order already stored for a creator.
type MaxOrderReader interface {
	MaxOrder(ctx context.Context, creatorID string) (int64, error)
}
