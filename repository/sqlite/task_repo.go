package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

const taskColumns = `id, title, description, created_by, department, display_order, priority,
	attached_kind, attached_id, due_at, status, assignee, review_status, approver, review_comment,
	completed_at, created_at, updated_at`

type taskRepository struct {
	db *DB
}

// NewTaskRepository returns a SQLite-backed TaskRepository.
func NewTaskRepository(db *DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.WorkItemFilter) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
	FROM tasks
	WHERE (? = 0 OR COALESCE(department, '') = ?)
	  AND (? = '' OR created_by = ? OR assignee = ?)
	  AND (? = '' OR attached_kind = ?)
	  AND (? = 0 OR attached_kind IS NOT NULL)
	  AND (? = 0 OR status <> 'done')
	  AND (? IS NULL OR created_at >= ? OR completed_at >= ?)
	ORDER BY display_order ASC, created_at ASC
	LIMIT ? OFFSET ?
	`
	scoped, department := scopeArgs(filter.Scope)
	since := nullTime(filter.ActiveSince)
	rows, err := r.db.QueryContext(ctx, query,
		boolArg(scoped), department,
		filter.ParticipantID, filter.ParticipantID, filter.ParticipantID,
		string(filter.AttachedKind), string(filter.AttachedKind),
		boolArg(filter.AttachedOnly),
		boolArg(filter.OpenOnly),
		since, since, since,
		limitArg(filter.Limit), filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.Touch(time.Now())
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}

	const query = `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	kind, attachedID := attachmentArgs(task.AttachedTo)
	if _, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.CreatedBy,
		nullString(task.Department),
		task.DisplayOrder,
		string(task.Priority),
		kind,
		attachedID,
		nullTime(task.DueAt),
		string(task.Status),
		task.Assignee,
		string(task.ReviewStatus),
		nullString(task.Approver),
		nullString(task.ReviewComment),
		nullTime(task.CompletedAt),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = time.Now()
	}

	const query = `
	UPDATE tasks
	SET title = ?, description = ?, department = ?, priority = ?, due_at = ?, status = ?,
		assignee = ?, review_status = ?, approver = ?, review_comment = ?, completed_at = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		nullString(task.Department),
		string(task.Priority),
		nullTime(task.DueAt),
		string(task.Status),
		task.Assignee,
		string(task.ReviewStatus),
		nullString(task.Approver),
		nullString(task.ReviewComment),
		nullTime(task.CompletedAt),
		formatTime(task.UpdatedAt),
		task.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrTaskNotFound)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrTaskNotFound)
}

func (r *taskRepository) MarkOverdue(ctx context.Context, now time.Time) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stamp := formatTime(now)
	rows, err := tx.QueryContext(ctx, `
	SELECT id FROM tasks
	WHERE status IN ('planned', 'in_progress') AND due_at IS NOT NULL AND due_at < ?
	`, stamp)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET status = 'overdue', updated_at = ? WHERE id = ?`, stamp, id); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var (
		department    sql.NullString
		attachedKind  sql.NullString
		attachedID    sql.NullString
		dueAt         sql.NullString
		priority      string
		status        string
		reviewStatus  string
		approver      sql.NullString
		reviewComment sql.NullString
		completedAt   sql.NullString
		createdAt     string
		updatedAt     string
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.CreatedBy,
		&department,
		&task.DisplayOrder,
		&priority,
		&attachedKind,
		&attachedID,
		&dueAt,
		&status,
		&task.Assignee,
		&reviewStatus,
		&approver,
		&reviewComment,
		&completedAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	var err error
	if task.DueAt, err = parseNullTime(dueAt); err != nil {
		return nil, err
	}
	if task.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, err
	}
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if task.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	task.Department = department.String
	task.Priority = domain.Priority(priority)
	task.AttachedTo = attachmentFrom(attachedKind, attachedID)
	task.Status = domain.TaskStatus(status)
	task.ReviewStatus = domain.ReviewStatus(reviewStatus)
	task.Approver = approver.String
	task.ReviewComment = reviewComment.String
	return &task, nil
}
