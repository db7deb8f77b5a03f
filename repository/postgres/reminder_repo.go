package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

const reminderColumns = `id, title, description, created_by, department, display_order, priority,
	attached_kind, attached_id, remind_at, status, created_at, updated_at`

type reminderRepository struct {
	pool *pgxpool.Pool
}

// NewReminderRepository returns a Postgres-backed ReminderRepository.
func NewReminderRepository(pool *pgxpool.Pool) repository.ReminderRepository {
	return &reminderRepository{pool: pool}
}

func (r *reminderRepository) GetByID(ctx context.Context, id string) (*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`
	reminder, err := scanReminder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	assignees, err := r.loadAssignees(ctx, []string{reminder.ID})
	if err != nil {
		return nil, err
	}
	reminder.Assignees = assignees[reminder.ID]
	return reminder, nil
}

func (r *reminderRepository) List(ctx context.Context, filter repository.WorkItemFilter) ([]domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + `
	FROM reminders
	WHERE ($1::boolean = FALSE OR COALESCE(department, '') = $2)
	  AND ($3 = '' OR created_by = $3 OR EXISTS (
		SELECT 1 FROM reminder_assignees ra WHERE ra.reminder_id = reminders.id AND ra.user_id = $3))
	  AND ($4 = '' OR attached_kind = $4)
	  AND ($5::boolean = FALSE OR attached_kind IS NOT NULL)
	  AND ($6::boolean = FALSE OR status <> 'done')
	  AND ($7::timestamptz IS NULL OR created_at >= $7)
	ORDER BY display_order ASC, created_at ASC
	LIMIT NULLIF($8::bigint, 0) OFFSET $9
	`
	scoped, department := scopeArgs(filter.Scope)
	rows, err := r.pool.Query(ctx, query,
		scoped,
		department,
		filter.ParticipantID,
		string(filter.AttachedKind),
		filter.AttachedOnly,
		filter.OpenOnly,
		timePtr(filter.ActiveSince),
		int64(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(reminders) == 0 {
		return reminders, nil
	}

	ids := make([]string, len(reminders))
	for i := range reminders {
		ids[i] = reminders[i].ID
	}
	assignees, err := r.loadAssignees(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range reminders {
		reminders[i].Assignees = assignees[reminders[i].ID]
	}
	return reminders, nil
}

func (r *reminderRepository) Create(ctx context.Context, reminder *domain.Reminder) (*domain.Reminder, error) {
	if reminder == nil {
		return nil, domain.ErrInvalidPayload
	}
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO reminders (id, title, description, created_by, department, display_order, priority,
		attached_kind, attached_id, remind_at, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, COALESCE($12, NOW()), COALESCE($12, NOW()))
	RETURNING created_at, updated_at
	`

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		kind, attachedID := attachmentArgs(reminder.AttachedTo)
		if err := tx.QueryRow(ctx, query,
			reminder.ID,
			reminder.Title,
			reminder.Description,
			reminder.CreatedBy,
			nullString(reminder.Department),
			reminder.DisplayOrder,
			string(reminder.Priority),
			kind,
			attachedID,
			timePtr(reminder.RemindAt),
			string(reminder.Status),
			nullTime(reminder.CreatedAt),
		).Scan(&reminder.CreatedAt, &reminder.UpdatedAt); err != nil {
			return err
		}
		return insertAssignees(ctx, tx, reminder.ID, reminder.Assignees)
	})
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

func (r *reminderRepository) Update(ctx context.Context, reminder *domain.Reminder) error {
	if reminder == nil {
		return domain.ErrInvalidPayload
	}
	return updateReminder(ctx, r.pool, reminder)
}

func (r *reminderRepository) UpdateWithAssignees(ctx context.Context, reminder *domain.Reminder) error {
	if reminder == nil {
		return domain.ErrInvalidPayload
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := updateReminder(ctx, tx, reminder); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM reminder_assignees WHERE reminder_id = $1`, reminder.ID); err != nil {
			return err
		}
		return insertAssignees(ctx, tx, reminder.ID, reminder.Assignees)
	})
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func updateReminder(ctx context.Context, db queryRower, reminder *domain.Reminder) error {
	const query = `
	UPDATE reminders
	SET title = $2,
		description = $3,
		department = $4,
		priority = $5,
		remind_at = $6,
		status = $7,
		updated_at = COALESCE($8, NOW())
	WHERE id = $1
	RETURNING updated_at
	`

	if err := db.QueryRow(ctx, query,
		reminder.ID,
		reminder.Title,
		reminder.Description,
		nullString(reminder.Department),
		string(reminder.Priority),
		timePtr(reminder.RemindAt),
		string(reminder.Status),
		nullTime(reminder.UpdatedAt),
	).Scan(&reminder.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReminderNotFound
		}
		return err
	}
	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, id string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM reminder_assignees WHERE reminder_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrReminderNotFound
		}
		return nil
	})
}

func (r *reminderRepository) loadAssignees(ctx context.Context, ids []string) (map[string][]string, error) {
	const query = `
	SELECT reminder_id, user_id
	FROM reminder_assignees
	WHERE reminder_id = ANY($1)
	ORDER BY reminder_id, position ASC
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string, len(ids))
	for rows.Next() {
		var reminderID, userID string
		if err := rows.Scan(&reminderID, &userID); err != nil {
			return nil, err
		}
		out[reminderID] = append(out[reminderID], userID)
	}
	return out, rows.Err()
}

func (r *reminderRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertAssignees(ctx context.Context, tx pgx.Tx, reminderID string, userIDs []string) error {
	const query = `INSERT INTO reminder_assignees (reminder_id, user_id, position) VALUES ($1, $2, $3)`
	for i, userID := range userIDs {
		if _, err := tx.Exec(ctx, query, reminderID, userID, i); err != nil {
			return err
		}
	}
	return nil
}

func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var reminder domain.Reminder
	var (
		department   *string
		attachedKind *string
		attachedID   *string
		priority     string
		status       string
	)

	if err := row.Scan(
		&reminder.ID,
		&reminder.Title,
		&reminder.Description,
		&reminder.CreatedBy,
		&department,
		&reminder.DisplayOrder,
		&priority,
		&attachedKind,
		&attachedID,
		&reminder.RemindAt,
		&status,
		&reminder.CreatedAt,
		&reminder.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReminderNotFound
		}
		return nil, err
	}

	reminder.Department = deref(department)
	reminder.Priority = domain.Priority(priority)
	reminder.AttachedTo = attachmentFrom(attachedKind, attachedID)
	reminder.Status = domain.ReminderStatus(status)
	return &reminder, nil
}
