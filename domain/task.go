package domain

import "time"

type TaskStatus string

const (
	TaskPlanned    TaskStatus = "planned"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskOverdue    TaskStatus = "overdue"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPlanned, TaskInProgress, TaskDone, TaskOverdue:
		return true
	}
	return false
}

type ReviewStatus string

const (
	ReviewNone            ReviewStatus = "none"
	ReviewPending         ReviewStatus = "pending"
	ReviewApproved        ReviewStatus = "approved"
	ReviewRejected        ReviewStatus = "rejected"
	ReviewNeedsCorrection ReviewStatus = "needs_correction"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewNone, ReviewPending, ReviewApproved, ReviewRejected, ReviewNeedsCorrection:
		return true
	}
	return false
}

// IsVerdict reports whether the review state is one reached by leaving pending.
func (s ReviewStatus) IsVerdict() bool {
	return s == ReviewApproved || s == ReviewRejected || s == ReviewNeedsCorrection
}

// Task is a single-assignee work item.
type Task struct {
	WorkItem
	DueAt         *time.Time   `json:"due_at,omitempty"`
	Status        TaskStatus   `json:"status"`
	Assignee      string       `json:"assignee"`
	ReviewStatus  ReviewStatus `json:"review_status"`
	Approver      string       `json:"approver,omitempty"`
	ReviewComment string       `json:"review_comment,omitempty"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskDone
}

// IsOverdue is true for any unfinished task whose due date has passed, whatever the stored status.
func (t *Task) IsOverdue(now time.Time) bool {
	if t == nil || t.IsCompleted() || t.DueAt == nil {
		return false
	}
	return t.DueAt.Before(now)
}

// EffectiveStatus is the status read paths expose. A stored overdue that the due date
// no longer backs reads as in progress.
func (t *Task) EffectiveStatus(now time.Time) TaskStatus {
	if t.IsOverdue(now) {
		return TaskOverdue
	}
	if t.Status == TaskOverdue {
		return TaskInProgress
	}
	return t.Status
}

// Present returns a copy carrying the derived status.
func (t Task) Present(now time.Time) Task {
	t.Status = t.EffectiveStatus(now)
	return t
}

// HasAssignee implements Participants.
func (t *Task) HasAssignee(userID string) bool {
	return t != nil && userID != "" && t.Assignee == userID
}

// CreatorID implements Participants.
func (t *Task) CreatorID() string {
	if t == nil {
		return ""
	}
	return t.CreatedBy
}

// SetStatus applies a status and keeps completed_at consistent with it.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	if t.Status == status {
		return
	}
	t.Status = status
	if status == TaskDone {
		completed := now
		t.CompletedAt = &completed
		return
	}
	t.CompletedAt = nil
}

// SetReview moves the review sub-state. Leaving pending for a verdict records the approver,
// as does any verdict that has none yet. Resetting to none clears it.
func (t *Task) SetReview(status ReviewStatus, approver string) {
	previous := t.ReviewStatus
	t.ReviewStatus = status
	switch {
	case status == ReviewNone:
		t.Approver = ""
	case status.IsVerdict() && (previous == ReviewPending || t.Approver == ""):
		if approver != "" {
			t.Approver = approver
		}
	}
}
