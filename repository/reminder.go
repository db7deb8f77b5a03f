package repository

import (
	"context"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
)

type ReminderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Reminder, error)
	List(ctx context.Context, filter WorkItemFilter) ([]domain.Reminder, error)
	// Create persists the reminder and its assignee links together.
	Create(ctx context.Context, reminder *domain.Reminder) (*domain.Reminder, error)
	// Update overwrites scalar fields; assignees are left untouched.
	Update(ctx context.Context, reminder *domain.Reminder) error
	// UpdateWithAssignees overwrites scalar fields and replaces the whole assignee set
	// in one transaction.
	UpdateWithAssignees(ctx context.Context, reminder *domain.Reminder) error
	// Delete detaches assignees before removing the reminder.
	Delete(ctx context.Context, id string) error
}
