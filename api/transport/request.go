package transport

import (
	"time"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	reminderUC "github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/reminder"
	taskUC "github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/task"
)

type TaskCreateRequest = taskUC.CreateInput

// TaskPatchRequest is the body of PUT /tasks/{id}. Omitted keys are left unchanged;
// null clears due_at, description, approver and review_comment.
type TaskPatchRequest struct {
	Title         Nullable[string]              `json:"title"`
	Description   Nullable[string]              `json:"description"`
	DueAt         Nullable[time.Time]           `json:"due_at"`
	Priority      Nullable[domain.Priority]     `json:"priority"`
	Department    Nullable[string]              `json:"department"`
	Assignee      Nullable[string]              `json:"assignee"`
	Status        Nullable[domain.TaskStatus]   `json:"status"`
	ReviewStatus  Nullable[domain.ReviewStatus] `json:"review_status"`
	Approver      Nullable[string]              `json:"approver"`
	ReviewComment Nullable[string]              `json:"review_comment"`
}

func (r TaskPatchRequest) Patch() taskUC.Patch {
	return taskUC.Patch{
		Title:         r.Title.Ptr(),
		Description:   clearable(r.Description),
		DueAt:         r.DueAt.Ptr(),
		ClearDueAt:    r.DueAt.Cleared(),
		Priority:      r.Priority.Ptr(),
		Department:    clearable(r.Department),
		Assignee:      r.Assignee.Ptr(),
		Status:        r.Status.Ptr(),
		ReviewStatus:  r.ReviewStatus.Ptr(),
		Approver:      clearable(r.Approver),
		ReviewComment: clearable(r.ReviewComment),
	}
}

type ReminderCreateRequest = reminderUC.CreateInput

// ReminderPatchRequest is the body of PUT /reminders/{id}.
type ReminderPatchRequest struct {
	Title       Nullable[string]                `json:"title"`
	Description Nullable[string]                `json:"description"`
	RemindAt    Nullable[time.Time]             `json:"remind_at"`
	Priority    Nullable[domain.Priority]       `json:"priority"`
	Department  Nullable[string]                `json:"department"`
	Status      Nullable[domain.ReminderStatus] `json:"status"`
	Done        Nullable[bool]                  `json:"done"`
	Assignees   Nullable[[]string]              `json:"assignees"`
}

func (r ReminderPatchRequest) Patch() reminderUC.Patch {
	patch := reminderUC.Patch{
		Title:       r.Title.Ptr(),
		Description: clearable(r.Description),
		RemindAt:    r.RemindAt.Ptr(),
		Priority:    r.Priority.Ptr(),
		Department:  clearable(r.Department),
		Status:      r.Status.Ptr(),
		Done:        r.Done.Ptr(),
	}
	if r.Assignees.Set {
		assignees := r.Assignees.Value
		if assignees == nil {
			assignees = []string{}
		}
		patch.Assignees = &assignees
	}
	return patch
}

type PostponeRequest struct {
	Days int `json:"days"`
}

type AssigneesRequest struct {
	UserIDs []string `json:"user_ids"`
}

// clearable maps an explicit null on a string field to the empty string.
func clearable(n Nullable[string]) *string {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}
