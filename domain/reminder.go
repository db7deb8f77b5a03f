package domain

import (
	"encoding/json"
	"time"
)

// ReminderStatus is the single source of truth for reminder completion; Done is derived from it.
type ReminderStatus string

const (
	ReminderPlanned    ReminderStatus = "planned"
	ReminderInProgress ReminderStatus = "in_progress"
	ReminderDone       ReminderStatus = "done"
)

func (s ReminderStatus) Valid() bool {
	switch s {
	case ReminderPlanned, ReminderInProgress, ReminderDone:
		return true
	}
	return false
}

const (
	MinPostponeDays = 1
	MaxPostponeDays = 365
)

// Reminder is a multi-assignee, dated work item.
type Reminder struct {
	WorkItem
	RemindAt  *time.Time     `json:"remind_at,omitempty"`
	Status    ReminderStatus `json:"status"`
	Assignees []string       `json:"assignees"`
}

func (r *Reminder) Done() bool {
	return r != nil && r.Status == ReminderDone
}

// ApplyCompletion reconciles the two ways callers express completion. A nil argument
// means "not provided". Contradictory values are rejected.
func (r *Reminder) ApplyCompletion(done *bool, status *ReminderStatus) error {
	switch {
	case status != nil && done != nil:
		if (*status == ReminderDone) != *done {
			return InvalidField("done", "contradicts status")
		}
		r.Status = *status
	case status != nil:
		r.Status = *status
	case done != nil:
		if *done {
			r.Status = ReminderDone
		} else if r.Status == ReminderDone {
			r.Status = ReminderPlanned
		}
	}
	return nil
}

// Postpone shifts remind_at by whole days. Repeated calls accumulate.
// A reminder without a date is left untouched.
func (r *Reminder) Postpone(days int) error {
	if days < MinPostponeDays || days > MaxPostponeDays {
		return InvalidField("days", "must be between 1 and 365")
	}
	if r.RemindAt == nil {
		return nil
	}
	shifted := r.RemindAt.Add(time.Duration(days) * 24 * time.Hour)
	r.RemindAt = &shifted
	return nil
}

// HasAssignee implements Participants.
func (r *Reminder) HasAssignee(userID string) bool {
	if r == nil || userID == "" {
		return false
	}
	for _, id := range r.Assignees {
		if id == userID {
			return true
		}
	}
	return false
}

// CreatorID implements Participants.
func (r *Reminder) CreatorID() string {
	if r == nil {
		return ""
	}
	return r.CreatedBy
}

// PrimaryAssignee is the representative used for department inheritance.
func (r *Reminder) PrimaryAssignee() string {
	if r == nil || len(r.Assignees) == 0 {
		return ""
	}
	return r.Assignees[0]
}

// MarshalJSON exposes the derived done flag next to the status.
func (r Reminder) MarshalJSON() ([]byte, error) {
	type plain Reminder
	assignees := r.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	p := plain(r)
	p.Assignees = assignees
	return json.Marshal(struct {
		plain
		Done bool `json:"done"`
	}{plain: p, Done: r.Done()})
}

// DedupeUsers keeps the first occurrence of each id and drops blanks, preserving order.
func DedupeUsers(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
