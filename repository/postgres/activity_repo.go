package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Append(ctx context.Context, activity domain.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO work_item_activity (id, item_kind, item_id, actor_id, action, payload, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
	ON CONFLICT (id) DO NOTHING
	`

	var payload interface{}
	if len(activity.Payload) > 0 {
		payload = []byte(activity.Payload)
	}

	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		string(activity.ItemKind),
		activity.ItemID,
		nullString(activity.ActorID),
		activity.Action,
		payload,
		nullTime(activity.CreatedAt),
	)
	return err
}

func (r *activityRepository) ListByItem(ctx context.Context, kind domain.ItemKind, itemID string) ([]domain.Activity, error) {
	const query = `
	SELECT id, item_kind, item_id, COALESCE(actor_id, ''), action, payload, created_at
	FROM work_item_activity
	WHERE item_kind = $1 AND item_id = $2
	ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, string(kind), itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		var (
			activity domain.Activity
			itemKind string
			payload  []byte
		)
		if err := rows.Scan(&activity.ID, &itemKind, &activity.ItemID, &activity.ActorID, &activity.Action, &payload, &activity.CreatedAt); err != nil {
			return nil, err
		}
		activity.ItemKind = domain.ItemKind(itemKind)
		if len(payload) > 0 {
			activity.Payload = append([]byte(nil), payload...)
		}
		out = append(out, activity)
	}
	return out, rows.Err()
}
