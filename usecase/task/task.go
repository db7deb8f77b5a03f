package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	appLogger "github.com/Pazificateur69/CRM-NetStrategy-sub001/pkg/logger"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase"
)

// CreateInput is the caller-supplied part of a new task.
type CreateInput struct {
	Title       string             `json:"title" validate:"required,max=255"`
	Description string             `json:"description" validate:"max=10000"`
	DueAt       *time.Time         `json:"due_at"`
	Priority    domain.Priority    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Department  string             `json:"department" validate:"max=100"`
	Assignee    string             `json:"assignee" validate:"max=64"`
	Status      domain.TaskStatus  `json:"status" validate:"omitempty,oneof=planned in_progress done"`
	AttachedTo  *domain.Attachment `json:"attached_to"`
}

// Patch lists the fields an update may change. Nil means unchanged.
type Patch struct {
	Title         *string              `json:"title" validate:"omitempty,max=255"`
	Description   *string              `json:"description" validate:"omitempty,max=10000"`
	DueAt         *time.Time           `json:"due_at"`
	ClearDueAt    bool                 `json:"-"`
	Priority      *domain.Priority     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Department    *string              `json:"department" validate:"omitempty,max=100"`
	Assignee      *string              `json:"assignee" validate:"omitempty,max=64"`
	Status        *domain.TaskStatus   `json:"status" validate:"omitempty,oneof=planned in_progress done"`
	ReviewStatus  *domain.ReviewStatus `json:"review_status" validate:"omitempty,oneof=none pending approved rejected needs_correction"`
	Approver      *string              `json:"approver" validate:"omitempty,max=64"`
	ReviewComment *string              `json:"review_comment" validate:"omitempty,max=10000"`
}

type UseCase struct {
	tasks   repository.TaskRepository
	support *usecase.Support
	logger  *zap.Logger
}

func New(tasks repository.TaskRepository, support *usecase.Support, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:   tasks,
		support: support,
		logger:  logger,
	}
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	presented := task.Present(uc.support.Now())
	return &presented, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, callerID string, input CreateInput) (*domain.Task, error) {
	if err := usecase.Validate(input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.InvalidField("title", "is required")
	}
	caller, err := uc.support.Caller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	assignee := strings.TrimSpace(input.Assignee)
	if assignee == "" {
		assignee = caller.ID
	} else if assignee != caller.ID {
		if err := uc.support.RequireUser(ctx, "assignee", assignee); err != nil {
			return nil, err
		}
	}
	if err := uc.support.CheckAttachment(ctx, input.AttachedTo); err != nil {
		return nil, err
	}
	department, err := uc.support.ResolveDepartment(ctx, input.Department, assignee, caller.ID)
	if err != nil {
		return nil, err
	}
	order, err := uc.support.NextOrder(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	now := uc.support.Now()
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	task := &domain.Task{
		WorkItem: domain.WorkItem{
			Title:        input.Title,
			Description:  input.Description,
			CreatedBy:    caller.ID,
			Department:   department,
			DisplayOrder: order,
			Priority:     priority,
			AttachedTo:   input.AttachedTo,
		},
		DueAt:        input.DueAt,
		Status:       domain.TaskPlanned,
		Assignee:     assignee,
		ReviewStatus: domain.ReviewNone,
	}
	if input.Status != "" {
		if err := uc.support.Policy().CheckStatus(domain.TaskPlanned, input.Status); err != nil {
			return nil, err
		}
		task.SetStatus(input.Status, now)
	}
	task.Touch(now)

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.support.Record(ctx, domain.KindTask, created.ID, caller.ID, domain.ActionCreated, nil)
	appLogger.WithRequestID(ctx, uc.logger).Info("task created",
		zap.String("task_id", created.ID),
		zap.String("department", created.Department),
		zap.Int64("display_order", created.DisplayOrder))

	presented := created.Present(now)
	return &presented, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, callerID, id string, patch Patch) (*domain.Task, error) {
	if err := usecase.Validate(patch); err != nil {
		return nil, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.InvalidField("title", "must not be empty")
	}
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	caller, err := uc.support.Authorize(ctx, callerID, task)
	if err != nil {
		return nil, err
	}

	now := uc.support.Now()
	changed := make([]string, 0, 8)

	if patch.Title != nil {
		task.Title = *patch.Title
		changed = append(changed, "title")
	}
	if patch.Description != nil {
		task.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
		changed = append(changed, "priority")
	}

	dueChanged := false
	switch {
	case patch.ClearDueAt:
		task.DueAt = nil
		dueChanged = true
	case patch.DueAt != nil:
		due := *patch.DueAt
		task.DueAt = &due
		dueChanged = true
	}
	if dueChanged {
		changed = append(changed, "due_at")
	}

	assigneeChanged := false
	if patch.Assignee != nil {
		next := strings.TrimSpace(*patch.Assignee)
		if next == "" {
			return nil, domain.InvalidField("assignee", "must not be empty")
		}
		if next != task.Assignee {
			if next != caller.ID {
				if err := uc.support.RequireUser(ctx, "assignee", next); err != nil {
					return nil, err
				}
			}
			task.Assignee = next
			assigneeChanged = true
			changed = append(changed, "assignee")
		}
	}

	if patch.Department != nil || assigneeChanged {
		explicit := ""
		if patch.Department != nil {
			explicit = *patch.Department
		}
		department, err := uc.support.ResolveDepartment(ctx, explicit, task.Assignee, task.CreatedBy)
		if err != nil {
			return nil, err
		}
		if department != "" && department != task.Department {
			task.Department = department
			changed = append(changed, "department")
		}
	}

	policy := uc.support.Policy()
	switch {
	case patch.Status != nil:
		if err := policy.CheckStatus(task.Status, *patch.Status); err != nil {
			return nil, err
		}
		task.SetStatus(*patch.Status, now)
		changed = append(changed, "status")
	case dueChanged && task.Status == domain.TaskOverdue && (task.DueAt == nil || !task.DueAt.Before(now)):
		task.SetStatus(domain.TaskInProgress, now)
		changed = append(changed, "status")
	}

	approver := ""
	if patch.Approver != nil {
		approver = strings.TrimSpace(*patch.Approver)
		if approver != "" && approver != caller.ID {
			if err := uc.support.RequireUser(ctx, "approver", approver); err != nil {
				return nil, err
			}
		}
	}
	if patch.ReviewStatus != nil {
		if err := policy.CheckReview(task.ReviewStatus, *patch.ReviewStatus); err != nil {
			return nil, err
		}
		verdictBy := approver
		if verdictBy == "" {
			verdictBy = caller.ID
		}
		task.SetReview(*patch.ReviewStatus, verdictBy)
		changed = append(changed, "review_status")
	} else if patch.Approver != nil {
		task.Approver = approver
		changed = append(changed, "approver")
	}
	if patch.ReviewComment != nil {
		task.ReviewComment = *patch.ReviewComment
		changed = append(changed, "review_comment")
	}

	task.Touch(now)
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	uc.support.Record(ctx, domain.KindTask, task.ID, caller.ID, domain.ActionUpdated, map[string][]string{"fields": changed})
	appLogger.WithRequestID(ctx, uc.logger).Info("task updated",
		zap.String("task_id", task.ID),
		zap.Strings("fields", changed))

	presented := task.Present(now)
	return &presented, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, callerID, id string) error {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	caller, err := uc.support.Authorize(ctx, callerID, task)
	if err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}
	uc.support.Record(ctx, domain.KindTask, id, caller.ID, domain.ActionDeleted, nil)
	appLogger.WithRequestID(ctx, uc.logger).Info("task deleted", zap.String("task_id", id))
	return nil
}

// SweepOverdue persists the overdue status of unfinished tasks whose due date has passed.
func (uc *UseCase) SweepOverdue(ctx context.Context) (int, error) {
	ids, err := uc.tasks.MarkOverdue(ctx, uc.support.Now())
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		uc.support.Record(ctx, domain.KindTask, id, "", domain.ActionMarkedOverdue, nil)
	}
	if len(ids) > 0 {
		uc.logger.Info("overdue tasks marked", zap.Int("count", len(ids)))
	}
	return len(ids), nil
}
