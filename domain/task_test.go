package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskEffectiveStatus(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		task Task
		want TaskStatus
	}{
		{name: "past due in progress", task: Task{Status: TaskInProgress, DueAt: &past}, want: TaskOverdue},
		{name: "past due planned", task: Task{Status: TaskPlanned, DueAt: &past}, want: TaskOverdue},
		{name: "past due done", task: Task{Status: TaskDone, DueAt: &past}, want: TaskDone},
		{name: "future due", task: Task{Status: TaskInProgress, DueAt: &future}, want: TaskInProgress},
		{name: "no due date", task: Task{Status: TaskPlanned}, want: TaskPlanned},
		{name: "stored overdue still late", task: Task{Status: TaskOverdue, DueAt: &past}, want: TaskOverdue},
		{name: "stored overdue moved to future", task: Task{Status: TaskOverdue, DueAt: &future}, want: TaskInProgress},
		{name: "stored overdue without due date", task: Task{Status: TaskOverdue}, want: TaskInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.EffectiveStatus(now))
			assert.Equal(t, tt.want, tt.task.Present(now).Status)
		})
	}
}

func TestTaskSetStatusTracksCompletion(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	task := &Task{Status: TaskPlanned}

	task.SetStatus(TaskDone, now)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)

	task.SetStatus(TaskDone, now.Add(time.Hour))
	assert.Equal(t, now, *task.CompletedAt)

	task.SetStatus(TaskInProgress, now)
	assert.Nil(t, task.CompletedAt)
}

func TestTaskSetReview(t *testing.T) {
	task := &Task{ReviewStatus: ReviewNone}

	task.SetReview(ReviewPending, "boss")
	assert.Empty(t, task.Approver)

	task.SetReview(ReviewApproved, "boss")
	assert.Equal(t, "boss", task.Approver)

	task.SetReview(ReviewNone, "")
	assert.Empty(t, task.Approver)
	assert.Equal(t, ReviewNone, task.ReviewStatus)
}

func TestTaskSetReviewVerdictWithoutPending(t *testing.T) {
	task := &Task{ReviewStatus: ReviewNone}

	task.SetReview(ReviewRejected, "boss")
	assert.Equal(t, "boss", task.Approver)

	task.SetReview(ReviewApproved, "other")
	assert.Equal(t, "boss", task.Approver)
}

func TestCanMutate(t *testing.T) {
	task := &Task{WorkItem: WorkItem{CreatedBy: "creator"}, Assignee: "worker"}
	reminder := &Reminder{WorkItem: WorkItem{CreatedBy: "creator"}, Assignees: []string{"a", "b"}}

	assert.True(t, CanMutate(Caller{ID: "creator"}, task))
	assert.True(t, CanMutate(Caller{ID: "worker"}, task))
	assert.True(t, CanMutate(Caller{ID: "admin", Admin: true}, task))
	assert.False(t, CanMutate(Caller{ID: "stranger"}, task))
	assert.False(t, CanMutate(Caller{}, task))

	assert.True(t, CanMutate(Caller{ID: "b"}, reminder))
	assert.False(t, CanMutate(Caller{ID: "worker"}, reminder))
}

func TestTransitionPolicies(t *testing.T) {
	permissive := PolicyFor(false)
	assert.NoError(t, permissive.CheckStatus(TaskDone, TaskPlanned))
	assert.NoError(t, permissive.CheckStatus(TaskPlanned, TaskDone))
	assert.Error(t, permissive.CheckStatus(TaskPlanned, TaskStatus("archived")))
	assert.NoError(t, permissive.CheckReview(ReviewNone, ReviewApproved))
	assert.True(t, IsDomainError(permissive.CheckStatus(TaskPlanned, TaskOverdue), ErrCodeInvalid))

	strict := PolicyFor(true)
	assert.NoError(t, strict.CheckStatus(TaskPlanned, TaskDone))
	assert.NoError(t, strict.CheckStatus(TaskOverdue, TaskInProgress))
	assert.NoError(t, strict.CheckStatus(TaskDone, TaskDone))
	assert.Error(t, strict.CheckStatus(TaskInProgress, TaskOverdue))
	assert.Error(t, strict.CheckStatus(TaskOverdue, TaskOverdue))
	assert.True(t, IsDomainError(strict.CheckStatus(TaskDone, TaskPlanned), ErrCodeInvalid))
	assert.NoError(t, strict.CheckReview(ReviewPending, ReviewRejected))
	assert.Error(t, strict.CheckReview(ReviewNone, ReviewApproved))
}

func TestSortByDisplayOrder(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []Task{
		{WorkItem: WorkItem{ID: "c", DisplayOrder: 2, CreatedAt: base}},
		{WorkItem: WorkItem{ID: "b", DisplayOrder: 1, CreatedAt: base.Add(time.Minute)}},
		{WorkItem: WorkItem{ID: "a", DisplayOrder: 1, CreatedAt: base}},
	}
	SortByDisplayOrder(tasks, func(t Task) *WorkItem { return &t.WorkItem })

	ids := []string{tasks[0].ID, tasks[1].ID, tasks[2].ID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
