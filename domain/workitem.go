package domain

import (
	"sort"
	"time"
)

// ItemKind distinguishes the two work item variants.
type ItemKind string

const (
	KindTask     ItemKind = "task"
	KindReminder ItemKind = "reminder"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// AccountKind is the type of business record a work item can be attached to.
type AccountKind string

const (
	AccountCustomer AccountKind = "customer"
	AccountProspect AccountKind = "prospect"
)

func (k AccountKind) Valid() bool {
	return k == AccountCustomer || k == AccountProspect
}

// Attachment links a work item to a customer or prospect account.
// A nil *Attachment is a global item with no account.
type Attachment struct {
	Kind AccountKind `json:"kind" validate:"required,oneof=customer prospect"`
	ID   string      `json:"id" validate:"required,max=64"`
}

// WorkItem holds the fields shared by tasks and reminders.
// Department is empty for global items.
type WorkItem struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	CreatedBy    string      `json:"created_by"`
	Department   string      `json:"department,omitempty"`
	DisplayOrder int64       `json:"display_order"`
	Priority     Priority    `json:"priority"`
	AttachedTo   *Attachment `json:"attached_to,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (w *WorkItem) Touch(now time.Time) {
	if w == nil {
		return
	}
	w.UpdatedAt = now
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
}

// IsGlobal reports whether the item has no resolved department.
func (w *WorkItem) IsGlobal() bool {
	return w != nil && w.Department == ""
}

// SortByDisplayOrder orders items by (display_order, created_at), stable for ties.
func SortByDisplayOrder[T any](items []T, base func(T) *WorkItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := base(items[i]), base(items[j])
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
