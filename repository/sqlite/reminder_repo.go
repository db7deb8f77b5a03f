package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

const reminderColumns = `id, title, description, created_by, department, display_order, priority,
	attached_kind, attached_id, remind_at, status, created_at, updated_at`

type reminderRepository struct {
	db *DB
}

// NewReminderRepository returns a SQLite-backed ReminderRepository.
func NewReminderRepository(db *DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) GetByID(ctx context.Context, id string) (*domain.Reminder, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	reminder, err := scanReminder(row)
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
	WHERE (? = 0 OR COALESCE(department, '') = ?)
	  AND (? = '' OR created_by = ? OR EXISTS (
		SELECT 1 FROM reminder_assignees ra WHERE ra.reminder_id = reminders.id AND ra.user_id = ?))
	  AND (? = '' OR attached_kind = ?)
	  AND (? = 0 OR attached_kind IS NOT NULL)
	  AND (? = 0 OR status <> 'done')
	  AND (? IS NULL OR created_at >= ?)
	ORDER BY display_order ASC, created_at ASC
	LIMIT ? OFFSET ?
	`
	scoped, department := scopeArgs(filter.Scope)
	since := nullTime(filter.ActiveSince)
	reminders, err := r.queryReminders(ctx, query,
		boolArg(scoped), department,
		filter.ParticipantID, filter.ParticipantID, filter.ParticipantID,
		string(filter.AttachedKind), string(filter.AttachedKind),
		boolArg(filter.AttachedOnly),
		boolArg(filter.OpenOnly),
		since, since,
		limitArg(filter.Limit), filter.Offset,
	)
	if err != nil || len(reminders) == 0 {
		return reminders, err
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
	if reminder.CreatedAt.IsZero() {
		reminder.Touch(time.Now())
	}
	if reminder.UpdatedAt.IsZero() {
		reminder.UpdatedAt = reminder.CreatedAt
	}

	const query = `
	INSERT INTO reminders (` + reminderColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		kind, attachedID := attachmentArgs(reminder.AttachedTo)
		if _, err := tx.ExecContext(ctx, query,
			reminder.ID,
			reminder.Title,
			reminder.Description,
			reminder.CreatedBy,
			nullString(reminder.Department),
			reminder.DisplayOrder,
			string(reminder.Priority),
			kind,
			attachedID,
			nullTime(reminder.RemindAt),
			string(reminder.Status),
			formatTime(reminder.CreatedAt),
			formatTime(reminder.UpdatedAt),
		); err != nil {
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
	return updateReminder(ctx, r.db, reminder)
}

func (r *reminderRepository) UpdateWithAssignees(ctx context.Context, reminder *domain.Reminder) error {
	if reminder == nil {
		return domain.ErrInvalidPayload
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := updateReminder(ctx, tx, reminder); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM reminder_assignees WHERE reminder_id = ?`, reminder.ID); err != nil {
			return err
		}
		return insertAssignees(ctx, tx, reminder.ID, reminder.Assignees)
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func updateReminder(ctx context.Context, db execer, reminder *domain.Reminder) error {
	if reminder.UpdatedAt.IsZero() {
		reminder.UpdatedAt = time.Now()
	}

	const query = `
	UPDATE reminders
	SET title = ?, description = ?, department = ?, priority = ?, remind_at = ?, status = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := db.ExecContext(ctx, query,
		reminder.Title,
		reminder.Description,
		nullString(reminder.Department),
		string(reminder.Priority),
		nullTime(reminder.RemindAt),
		string(reminder.Status),
		formatTime(reminder.UpdatedAt),
		reminder.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrReminderNotFound)
}

func (r *reminderRepository) Delete(ctx context.Context, id string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reminder_assignees WHERE reminder_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireAffected(res, domain.ErrReminderNotFound)
	})
}

// queryReminders drains the result set before returning so the single connection is free again.
func (r *reminderRepository) queryReminders(ctx context.Context, query string, args ...interface{}) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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
	return reminders, rows.Err()
}

func (r *reminderRepository) loadAssignees(ctx context.Context, ids []string) (map[string][]string, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT reminder_id, user_id FROM reminder_assignees
	WHERE reminder_id IN (`+placeholders+`)
	ORDER BY reminder_id, position ASC
	`, args...)
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

func (r *reminderRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func insertAssignees(ctx context.Context, tx *sql.Tx, reminderID string, userIDs []string) error {
	for i, userID := range userIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reminder_assignees (reminder_id, user_id, position) VALUES (?, ?, ?)`,
			reminderID, userID, i,
		); err != nil {
			return err
		}
	}
	return nil
}

func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var reminder domain.Reminder
	var (
		department   sql.NullString
		attachedKind sql.NullString
		attachedID   sql.NullString
		remindAt     sql.NullString
		priority     string
		status       string
		createdAt    string
		updatedAt    string
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
		&remindAt,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReminderNotFound
		}
		return nil, err
	}

	var err error
	if reminder.RemindAt, err = parseNullTime(remindAt); err != nil {
		return nil, err
	}
	if reminder.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if reminder.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	reminder.Department = department.String
	reminder.Priority = domain.Priority(priority)
	reminder.AttachedTo = attachmentFrom(attachedKind, attachedID)
	reminder.Status = domain.ReminderStatus(status)
	return &reminder, nil
}
