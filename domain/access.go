package domain

// Participants exposes who is attached to a work item for authorization decisions.
type Participants interface {
	CreatorID() string
	HasAssignee(userID string) bool
}

// Caller is the identity performing an operation, with its admin standing freshly resolved.
type Caller struct {
	ID    string
	Admin bool
}

// CanMutate reports whether the caller may change or delete the item: its creator,
// one of its assignees, or an administrator.
func CanMutate(caller Caller, item Participants) bool {
	if caller.ID == "" || item == nil {
		return false
	}
	if caller.Admin {
		return true
	}
	return item.CreatorID() == caller.ID || item.HasAssignee(caller.ID)
}
