package domain

import (
	"encoding/json"
	"time"
)

// Activity actions.
const (
	ActionCreated         = "created"
	ActionUpdated         = "updated"
	ActionDeleted         = "deleted"
	ActionPostponed       = "postponed"
	ActionAssigneesSynced = "assignees_synced"
	ActionMarkedOverdue   = "marked_overdue"
)

// Activity is an append-only record of a change applied to a work item.
type Activity struct {
	ID        string          `json:"id"`
	ItemKind  ItemKind        `json:"item_kind"`
	ItemID    string          `json:"item_id"`
	ActorID   string          `json:"actor_id,omitempty"`
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
