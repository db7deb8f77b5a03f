package repository

import (
	"context"
	"time"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
)

// WorkItemFilter narrows task and reminder listings. Zero values do not filter.
type WorkItemFilter struct {
	// Scope restricts the department; nil means all, an empty department means global items.
	Scope *domain.DepartmentScope
	// ParticipantID keeps items the user created or is assigned to.
	ParticipantID string
	AttachedKind  domain.AccountKind
	AttachedOnly  bool
	OpenOnly      bool
	// ActiveSince keeps items created or completed at or after the instant.
	ActiveSince *time.Time
	// Limit <= 0 means no limit.
	Limit  int
	Offset int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter WorkItemFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	// MarkOverdue stores the overdue status on unfinished tasks due before now and returns their ids.
	MarkOverdue(ctx context.Context, now time.Time) ([]string, error)
}
