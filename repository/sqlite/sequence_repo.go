package sqlite

import "context"

// Sequencer computes max+1 over the creator's tasks and reminders.
type Sequencer struct {
	db *DB
}

func NewSequencer(db *DB) *Sequencer {
	return &Sequencer{db: db}
}

func (s *Sequencer) MaxOrder(ctx context.Context, creatorID string) (int64, error) {
	var max int64
	err := s.db.QueryRowContext(ctx, `
	SELECT MAX(
		COALESCE((SELECT MAX(display_order) FROM tasks WHERE created_by = ?), 0),
		COALESCE((SELECT MAX(display_order) FROM reminders WHERE created_by = ?), 0)
	)
	`, creatorID, creatorID).Scan(&max)
	return max, err
}

func (s *Sequencer) Next(ctx context.Context, creatorID string) (int64, error) {
	max, err := s.MaxOrder(ctx, creatorID)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
