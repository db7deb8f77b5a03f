// Package views holds the read-only projections over tasks and reminders:
// department and personal listings, weekly counters and the overdue rollup.
package views

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase"
)

// Page bounds a listing. A zero Limit returns everything.
type Page struct {
	Limit  int
	Offset int
}

// Group is one department bucket of a personal listing. Department is empty for global items.
type Group[T any] struct {
	Department string `json:"department"`
	Items      []T    `json:"items"`
}

type UseCase struct {
	tasks     repository.TaskRepository
	reminders repository.ReminderRepository
	activity  repository.ActivityRepository
	support   *usecase.Support
	logger    *zap.Logger
}

func New(store repository.Store, support *usecase.Support, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:     store.Tasks,
		reminders: store.Reminders,
		activity:  store.Activity,
		support:   support,
		logger:    logger,
	}
}

// departmentFilter composes the scope with ownership for non-admin callers.
func (uc *UseCase) departmentFilter(ctx context.Context, callerID string, scope *domain.DepartmentScope, page Page) (repository.WorkItemFilter, error) {
	caller, err := uc.support.Caller(ctx, callerID)
	if err != nil {
		return repository.WorkItemFilter{}, err
	}
	filter := repository.WorkItemFilter{
		Scope:  scope,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if !caller.Admin {
		filter.ParticipantID = caller.ID
	}
	return filter, nil
}

func (uc *UseCase) TasksByDepartment(ctx context.Context, callerID string, scope *domain.DepartmentScope, page Page) ([]domain.Task, error) {
	filter, err := uc.departmentFilter(ctx, callerID, scope, page)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return present(tasks, uc.support.Now()), nil
}

func (uc *UseCase) RemindersByDepartment(ctx context.Context, callerID string, scope *domain.DepartmentScope, page Page) ([]domain.Reminder, error) {
	filter, err := uc.departmentFilter(ctx, callerID, scope, page)
	if err != nil {
		return nil, err
	}
	return uc.reminders.List(ctx, filter)
}

// MyTasks returns the tasks the caller created or is assigned to.
func (uc *UseCase) MyTasks(ctx context.Context, callerID string) ([]domain.Task, error) {
	if _, err := uc.support.Caller(ctx, callerID); err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.List(ctx, repository.WorkItemFilter{ParticipantID: callerID})
	if err != nil {
		return nil, err
	}
	return present(tasks, uc.support.Now()), nil
}

func (uc *UseCase) MyReminders(ctx context.Context, callerID string) ([]domain.Reminder, error) {
	if _, err := uc.support.Caller(ctx, callerID); err != nil {
		return nil, err
	}
	return uc.reminders.List(ctx, repository.WorkItemFilter{ParticipantID: callerID})
}

func (uc *UseCase) MyTasksGrouped(ctx context.Context, callerID string) ([]Group[domain.Task], error) {
	tasks, err := uc.MyTasks(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return groupByDepartment(tasks, func(t *domain.Task) *domain.WorkItem { return &t.WorkItem }), nil
}

func (uc *UseCase) MyRemindersGrouped(ctx context.Context, callerID string) ([]Group[domain.Reminder], error) {
	reminders, err := uc.MyReminders(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return groupByDepartment(reminders, func(r *domain.Reminder) *domain.WorkItem { return &r.WorkItem }), nil
}

// Activity lists the log of one item, oldest first.
func (uc *UseCase) Activity(ctx context.Context, kind domain.ItemKind, itemID string) ([]domain.Activity, error) {
	switch kind {
	case domain.KindTask:
		if _, err := uc.tasks.GetByID(ctx, itemID); err != nil {
			return nil, err
		}
	case domain.KindReminder:
		if _, err := uc.reminders.GetByID(ctx, itemID); err != nil {
			return nil, err
		}
	default:
		return nil, domain.InvalidField("kind", "must be one of: task, reminder")
	}
	return uc.activity.ListByItem(ctx, kind, itemID)
}

func present(tasks []domain.Task, now time.Time) []domain.Task {
	for i := range tasks {
		tasks[i] = tasks[i].Present(now)
	}
	return tasks
}

// groupByDepartment buckets items keeping their relative order. Named departments come
// first in name order, the global bucket last.
func groupByDepartment[T any](items []T, base func(*T) *domain.WorkItem) []Group[T] {
	index := make(map[string]int)
	groups := make([]Group[T], 0)
	for i := range items {
		dept := base(&items[i]).Department
		pos, ok := index[dept]
		if !ok {
			pos = len(groups)
			index[dept] = pos
			groups = append(groups, Group[T]{Department: dept})
		}
		groups[pos].Items = append(groups[pos].Items, items[i])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Department, groups[j].Department
		if a == "" || b == "" {
			return b == "" && a != ""
		}
		return a < b
	})
	return groups
}
