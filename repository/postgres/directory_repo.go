package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

// Directory answers identity and account lookups from the users, customers and prospects tables.
type Directory struct {
	pool *pgxpool.Pool
}

// NewDirectory returns the users/customers/prospects lookups backed by Postgres.
func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

var (
	_ repository.IdentityDirectory = (*Directory)(nil)
	_ repository.AccountDirectory  = (*Directory)(nil)
)

func (r *Directory) GetUser(ctx context.Context, id string) (*domain.User, error) {
	const query = `
		SELECT id, email, role, status, department, metadata, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user domain.User
	var (
		department *string
		metadata   []byte
	)

	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Role, &user.Status, &department, &metadata, &user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Department = deref(department)
	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &user.Metadata)
	}
	return &user, nil
}

func (r *Directory) UpsertUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (id, email, role, status, department, metadata, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()), NOW())
	ON CONFLICT (id) DO UPDATE
	SET email = EXCLUDED.email,
		role = EXCLUDED.role,
		status = EXCLUDED.status,
		department = EXCLUDED.department,
		metadata = EXCLUDED.metadata,
		updated_at = NOW()
	RETURNING created_at, updated_at;
	`

	return r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Role,
		user.Status,
		nullString(user.Department),
		marshalMap(user.Metadata),
		nullTime(user.CreatedAt),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *Directory) UserExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *Directory) HomeDepartment(ctx context.Context, id string) (string, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.Department, nil
}

func (r *Directory) HasRole(ctx context.Context, id, role string) (bool, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.HasRole(role), nil
}

func (r *Directory) AccountExists(ctx context.Context, kind domain.AccountKind, id string) (bool, error) {
	table, err := accountTable(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	err = r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func accountTable(kind domain.AccountKind) (string, error) {
	switch kind {
	case domain.AccountCustomer:
		return "customers", nil
	case domain.AccountProspect:
		return "prospects", nil
	default:
		return "", domain.InvalidField("attached_to.kind", fmt.Sprintf("unknown account kind %q", kind))
	}
}
