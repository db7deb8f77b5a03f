package reminder

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

type CreateInput struct {
	Title       string                 `json:"title" validate:"required,max=255"`
	Description string                 `json:"description" validate:"max=10000"`
	RemindAt    *time.Time             `json:"remind_at" validate:"required"`
	Priority    domain.Priority        `json:"priority" validate:"omitempty,oneof=low medium high"`
	Department  string                 `json:"department" validate:"max=100"`
	Assignees   []string               `json:"assignees" validate:"max=50,dive,max=64"`
	Status      *domain.ReminderStatus `json:"status" validate:"omitempty,oneof=planned in_progress done"`
	Done        *bool                  `json:"done"`
	AttachedTo  *domain.Attachment     `json:"attached_to"`
}

// Patch lists the fields an update may change. Nil means unchanged; a non-nil
// Assignees replaces the whole set.
type Patch struct {
	Title       *string                `json:"title" validate:"omitempty,max=255"`
	Description *string                `json:"description" validate:"omitempty,max=10000"`
	RemindAt    *time.Time             `json:"remind_at"`
	Priority    *domain.Priority       `json:"priority" validate:"omitempty,oneof=low medium high"`
	Department  *string                `json:"department" validate:"omitempty,max=100"`
	Status      *domain.ReminderStatus `json:"status" validate:"omitempty,oneof=planned in_progress done"`
	Done        *bool                  `json:"done"`
	Assignees   *[]string              `json:"assignees" validate:"omitempty,max=50,dive,max=64"`
}

type UseCase struct {
	reminders repository.ReminderRepository
	support   *usecase.Support
	logger    *zap.Logger
}

func New(reminders repository.ReminderRepository, support *usecase.Support, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		reminders: reminders,
		support:   support,
		logger:    logger,
	}
}

func (uc *UseCase) GetReminder(ctx context.Context, id string) (*domain.Reminder, error) {
	return uc.reminders.GetByID(ctx, id)
}

func (uc *UseCase) CreateReminder(ctx context.Context, callerID string, input CreateInput) (*domain.Reminder, error) {
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
	assignees, err := uc.checkAssignees(ctx, input.Assignees)
	if err != nil {
		return nil, err
	}
	if err := uc.support.CheckAttachment(ctx, input.AttachedTo); err != nil {
		return nil, err
	}

	reminder := &domain.Reminder{
		WorkItem: domain.WorkItem{
			Title:       input.Title,
			Description: input.Description,
			CreatedBy:   caller.ID,
			Priority:    input.Priority,
			AttachedTo:  input.AttachedTo,
		},
		RemindAt:  input.RemindAt,
		Status:    domain.ReminderPlanned,
		Assignees: assignees,
	}
	if reminder.Priority == "" {
		reminder.Priority = domain.PriorityMedium
	}
	if err := reminder.ApplyCompletion(input.Done, input.Status); err != nil {
		return nil, err
	}
	if reminder.Department, err = uc.support.ResolveDepartment(ctx, input.Department, reminder.PrimaryAssignee(), caller.ID); err != nil {
		return nil, err
	}
	if reminder.DisplayOrder, err = uc.support.NextOrder(ctx, caller.ID); err != nil {
		return nil, err
	}
	reminder.Touch(uc.support.Now())

	created, err := uc.reminders.Create(ctx, reminder)
	if err != nil {
		return nil, err
	}
	uc.support.Record(ctx, domain.KindReminder, created.ID, caller.ID, domain.ActionCreated, nil)
	appLogger.WithRequestID(ctx, uc.logger).Info("reminder created",
		zap.String("reminder_id", created.ID),
		zap.Int("assignees", len(created.Assignees)))
	return created, nil
}

func (uc *UseCase) UpdateReminder(ctx context.Context, callerID, id string, patch Patch) (*domain.Reminder, error) {
	if err := usecase.Validate(patch); err != nil {
		return nil, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.InvalidField("title", "must not be empty")
	}
	reminder, err := uc.reminders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	caller, err := uc.support.Authorize(ctx, callerID, reminder)
	if err != nil {
		return nil, err
	}

	changed := make([]string, 0, 8)
	if patch.Title != nil {
		reminder.Title = *patch.Title
		changed = append(changed, "title")
	}
	if patch.Description != nil {
		reminder.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.Priority != nil {
		reminder.Priority = *patch.Priority
		changed = append(changed, "priority")
	}
	if patch.RemindAt != nil {
		at := *patch.RemindAt
		reminder.RemindAt = &at
		changed = append(changed, "remind_at")
	}
	if patch.Status != nil || patch.Done != nil {
		if err := reminder.ApplyCompletion(patch.Done, patch.Status); err != nil {
			return nil, err
		}
		changed = append(changed, "status")
	}

	assigneesChanged := false
	if patch.Assignees != nil {
		next, err := uc.checkAssignees(ctx, *patch.Assignees)
		if err != nil {
			return nil, err
		}
		assigneesChanged = !sameUsers(reminder.Assignees, next)
		reminder.Assignees = next
	}
	if patch.Department != nil || assigneesChanged {
		explicit := ""
		if patch.Department != nil {
			explicit = *patch.Department
		}
		department, err := uc.support.ResolveDepartment(ctx, explicit, reminder.PrimaryAssignee(), reminder.CreatedBy)
		if err != nil {
			return nil, err
		}
		if department != "" && department != reminder.Department {
			reminder.Department = department
			changed = append(changed, "department")
		}
	}

	reminder.Touch(uc.support.Now())
	save := uc.reminders.Update
	if assigneesChanged {
		save = uc.reminders.UpdateWithAssignees
		changed = append(changed, "assignees")
	}
	if err := save(ctx, reminder); err != nil {
		return nil, err
	}
	uc.support.Record(ctx, domain.KindReminder, reminder.ID, caller.ID, domain.ActionUpdated, map[string][]string{"fields": changed})
	appLogger.WithRequestID(ctx, uc.logger).Info("reminder updated",
		zap.String("reminder_id", reminder.ID),
		zap.Strings("fields", changed))
	return uc.reminders.GetByID(ctx, reminder.ID)
}

func (uc *UseCase) DeleteReminder(ctx context.Context, callerID, id string) error {
	reminder, err := uc.reminders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	caller, err := uc.support.Authorize(ctx, callerID, reminder)
	if err != nil {
		return err
	}
	if err := uc.reminders.Delete(ctx, id); err != nil {
		return err
	}
	uc.support.Record(ctx, domain.KindReminder, id, caller.ID, domain.ActionDeleted, nil)
	appLogger.WithRequestID(ctx, uc.logger).Info("reminder deleted", zap.String("reminder_id", id))
	return nil
}

// Postpone shifts remind_at by whole days. A reminder with no date is returned unchanged.
func (uc *UseCase) Postpone(ctx context.Context, callerID, id string, days int) (*domain.Reminder, error) {
	if days < domain.MinPostponeDays || days > domain.MaxPostponeDays {
		return nil, domain.InvalidField("days", "must be between 1 and 365")
	}
	reminder, err := uc.reminders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	caller, err := uc.support.Authorize(ctx, callerID, reminder)
	if err != nil {
		return nil, err
	}
	if reminder.RemindAt == nil {
		return reminder, nil
	}
	if err := reminder.Postpone(days); err != nil {
		return nil, err
	}
	reminder.Touch(uc.support.Now())
	if err := uc.reminders.Update(ctx, reminder); err != nil {
		return nil, err
	}
	uc.support.Record(ctx, domain.KindReminder, reminder.ID, caller.ID, domain.ActionPostponed, map[string]interface{}{
		"days":      days,
		"remind_at": reminder.RemindAt,
	})
	appLogger.WithRequestID(ctx, uc.logger).Info("reminder postponed",
		zap.String("reminder_id", reminder.ID),
		zap.Int("days", days))
	return reminder, nil
}

// SyncAssignees replaces the assignee set and re-derives the department from the new primary assignee.
func (uc *UseCase) SyncAssignees(ctx context.Context, callerID, id string, userIDs []string) (*domain.Reminder, error) {
	reminder, err := uc.reminders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	caller, err := uc.support.Authorize(ctx, callerID, reminder)
	if err != nil {
		return nil, err
	}
	assignees, err := uc.checkAssignees(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	reminder.Assignees = assignees

	department, err := uc.support.ResolveDepartment(ctx, "", reminder.PrimaryAssignee(), reminder.CreatedBy)
	if err != nil {
		return nil, err
	}
	if department != "" {
		reminder.Department = department
	}
	reminder.Touch(uc.support.Now())
	if err := uc.reminders.UpdateWithAssignees(ctx, reminder); err != nil {
		return nil, err
	}
	uc.support.Record(ctx, domain.KindReminder, id, caller.ID, domain.ActionAssigneesSynced, map[string][]string{"assignees": assignees})
	appLogger.WithRequestID(ctx, uc.logger).Info("reminder assignees synced",
		zap.String("reminder_id", id),
		zap.Int("assignees", len(assignees)))
	return uc.reminders.GetByID(ctx, id)
}

// checkAssignees dedupes the ids and rejects any unknown to the directory.
func (uc *UseCase) checkAssignees(ctx context.Context, ids []string) ([]string, error) {
	trimmed := make([]string, 0, len(ids))
	for _, id := range ids {
		trimmed = append(trimmed, strings.TrimSpace(id))
	}
	assignees := domain.DedupeUsers(trimmed)
	for _, id := range assignees {
		if err := uc.support.RequireUser(ctx, "assignees", id); err != nil {
			return nil, err
		}
	}
	return assignees, nil
}

func sameUsers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
