package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

const taskColumns = `id, title, description, created_by, department, display_order, priority,
	attached_kind, attached_id, due_at, status, assignee, review_status, approver, review_comment,
	completed_at, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.WorkItemFilter) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1::boolean = FALSE OR COALESCE(department, '') = $2)
	  AND ($3 = '' OR created_by = $3 OR assignee = $3)
	  AND ($4 = '' OR attached_kind = $4)
	  AND ($5::boolean = FALSE OR attached_kind IS NOT NULL)
	  AND ($6::boolean = FALSE OR status <> 'done')
	  AND ($7::timestamptz IS NULL OR created_at >= $7 OR completed_at >= $7)
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

	const query = `
	INSERT INTO tasks (id, title, description, created_by, department, display_order, priority,
		attached_kind, attached_id, due_at, status, assignee, review_status, approver, review_comment,
		completed_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		COALESCE($17, NOW()), COALESCE($17, NOW()))
	RETURNING created_at, updated_at
	`

	kind, attachedID := attachmentArgs(task.AttachedTo)
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.CreatedBy,
		nullString(task.Department),
		task.DisplayOrder,
		string(task.Priority),
		kind,
		attachedID,
		timePtr(task.DueAt),
		string(task.Status),
		task.Assignee,
		string(task.ReviewStatus),
		nullString(task.Approver),
		nullString(task.ReviewComment),
		timePtr(task.CompletedAt),
		nullTime(task.CreatedAt),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		department = $4,
		priority = $5,
		due_at = $6,
		status = $7,
		assignee = $8,
		review_status = $9,
		approver = $10,
		review_comment = $11,
		completed_at = $12,
		updated_at = COALESCE($13, NOW())
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		nullString(task.Department),
		string(task.Priority),
		timePtr(task.DueAt),
		string(task.Status),
		task.Assignee,
		string(task.ReviewStatus),
		nullString(task.Approver),
		nullString(task.ReviewComment),
		timePtr(task.CompletedAt),
		nullTime(task.UpdatedAt),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) MarkOverdue(ctx context.Context, now time.Time) ([]string, error) {
	const query = `
	UPDATE tasks
	SET status = 'overdue', updated_at = $1
	WHERE status IN ('planned', 'in_progress')
	  AND due_at IS NOT NULL
	  AND due_at < $1
	RETURNING id
	`
	rows, err := r.pool.Query(ctx, query, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var (
		department    *string
		attachedKind  *string
		attachedID    *string
		priority      string
		status        string
		reviewStatus  string
		approver      *string
		reviewComment *string
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
		&task.DueAt,
		&status,
		&task.Assignee,
		&reviewStatus,
		&approver,
		&reviewComment,
		&task.CompletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Department = deref(department)
	task.Priority = domain.Priority(priority)
	task.AttachedTo = attachmentFrom(attachedKind, attachedID)
	task.Status = domain.TaskStatus(status)
	task.ReviewStatus = domain.ReviewStatus(reviewStatus)
	task.Approver = deref(approver)
	task.ReviewComment = deref(reviewComment)
	return &task, nil
}
