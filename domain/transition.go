package domain

import "fmt"

// TransitionPolicy decides which status and review moves are accepted.
type TransitionPolicy interface {
	CheckStatus(from, to TaskStatus) error
	CheckReview(from, to ReviewStatus) error
}

// Permissive accepts every move between valid states. Overdue is only ever derived
// from due_at, so it is never an accepted target.
type Permissive struct{}

func (Permissive) CheckStatus(_, to TaskStatus) error {
	if !to.Valid() {
		return InvalidField("status", fmt.Sprintf("unknown status %q", to))
	}
	if to == TaskOverdue {
		return InvalidField("status", "overdue is derived from due_at and cannot be set")
	}
	return nil
}

func (Permissive) CheckReview(_, to ReviewStatus) error {
	if !to.Valid() {
		return InvalidField("review_status", fmt.Sprintf("unknown review status %q", to))
	}
	return nil
}

// Strict enforces a forward-only lifecycle. Staying in the same state is always allowed.
type Strict struct{}

var strictStatus = map[TaskStatus][]TaskStatus{
	TaskPlanned:    {TaskInProgress, TaskDone},
	TaskInProgress: {TaskPlanned, TaskDone},
	TaskOverdue:    {TaskInProgress, TaskDone},
	TaskDone:       nil,
}

var strictReview = map[ReviewStatus][]ReviewStatus{
	ReviewNone:            {ReviewPending},
	ReviewPending:         {ReviewApproved, ReviewRejected, ReviewNeedsCorrection, ReviewNone},
	ReviewApproved:        {ReviewPending, ReviewNone},
	ReviewRejected:        {ReviewPending, ReviewNone},
	ReviewNeedsCorrection: {ReviewPending, ReviewNone},
}

func (Strict) CheckStatus(from, to TaskStatus) error {
	if err := (Permissive{}).CheckStatus(from, to); err != nil {
		return err
	}
	if from == to || contains(strictStatus[from], to) {
		return nil
	}
	return InvalidField("status", fmt.Sprintf("cannot move from %s to %s", from, to))
}

func (Strict) CheckReview(from, to ReviewStatus) error {
	if err := (Permissive{}).CheckReview(from, to); err != nil {
		return err
	}
	if from == to || contains(strictReview[from], to) {
		return nil
	}
	return InvalidField("review_status", fmt.Sprintf("cannot move from %s to %s", from, to))
}

// PolicyFor returns the strict table when requested, the permissive default otherwise.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return Strict{}
	}
	return Permissive{}
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
