package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

type activityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, activity domain.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	var payload interface{}
	if len(activity.Payload) > 0 {
		payload = string(activity.Payload)
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO work_item_activity (id, item_kind, item_id, actor_id, action, payload, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`, activity.ID, string(activity.ItemKind), activity.ItemID, nullString(activity.ActorID),
		activity.Action, payload, formatTime(activity.CreatedAt))
	return err
}

func (r *activityRepository) ListByItem(ctx context.Context, kind domain.ItemKind, itemID string) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, item_kind, item_id, COALESCE(actor_id, ''), action, payload, created_at
	FROM work_item_activity
	WHERE item_kind = ? AND item_id = ?
	ORDER BY created_at ASC
	`, string(kind), itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		var (
			activity  domain.Activity
			itemKind  string
			payload   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&activity.ID, &itemKind, &activity.ItemID, &activity.ActorID, &activity.Action, &payload, &createdAt); err != nil {
			return nil, err
		}
		activity.ItemKind = domain.ItemKind(itemKind)
		if payload.Valid {
			activity.Payload = []byte(payload.String)
		}
		if activity.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, activity)
	}
	return out, rows.Err()
}
