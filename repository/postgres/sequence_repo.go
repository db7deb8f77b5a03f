package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sequencer computes the next display order as max+1 over the creator's tasks and reminders.
// Concurrent creations by the same user can read the same maximum.
type Sequencer struct {
	pool *pgxpool.Pool
}

func NewSequencer(pool *pgxpool.Pool) *Sequencer {
	return &Sequencer{pool: pool}
}

func (s *Sequencer) MaxOrder(ctx context.Context, creatorID string) (int64, error) {
	const query = `
	SELECT GREATEST(
		COALESCE((SELECT MAX(display_order) FROM tasks WHERE created_by = $1), 0),
		COALESCE((SELECT MAX(display_order) FROM reminders WHERE created_by = $1), 0)
	)
	`
	var max int64
	if err := s.pool.QueryRow(ctx, query, creatorID).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

func (s *Sequencer) Next(ctx context.Context, creatorID string) (int64, error) {
	max, err := s.MaxOrder(ctx, creatorID)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
