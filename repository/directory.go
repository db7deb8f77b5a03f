package repository

import (
	"context"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
)

// IdentityDirectory is the read side of the identity collaborator.
type IdentityDirectory interface {
	UserExists(ctx context.Context, id string) (bool, error)
	// HomeDepartment returns "" for unknown users or users without a department.
	HomeDepartment(ctx context.Context, id string) (string, error)
	HasRole(ctx context.Context, id, role string) (bool, error)
}

// AccountDirectory validates attachments against the account collaborator.
type AccountDirectory interface {
	AccountExists(ctx context.Context, kind domain.AccountKind, id string) (bool, error)
}
