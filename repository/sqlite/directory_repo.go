package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

// Directory answers identity and account lookups from the local users, customers and prospects tables.
type Directory struct {
	db *DB
}

func NewDirectory(db *DB) *Directory {
	return &Directory{db: db}
}

var (
	_ repository.IdentityDirectory = (*Directory)(nil)
	_ repository.AccountDirectory  = (*Directory)(nil)
)

func (d *Directory) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var (
		user       domain.User
		department sql.NullString
		createdAt  string
		updatedAt  string
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT id, email, role, status, department, created_at, updated_at FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.Email, &user.Role, &user.Status, &department, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	user.Department = department.String
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Directory) UpsertUser(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = "active"
	}
	if user.Role == "" {
		user.Role = "user"
	}

	_, err := d.db.ExecContext(ctx, `
	INSERT INTO users (id, email, role, status, department, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET email = excluded.email,
		role = excluded.role,
		status = excluded.status,
		department = excluded.department,
		updated_at = excluded.updated_at
	`, user.ID, user.Email, user.Role, user.Status, nullString(user.Department),
		formatTime(user.CreatedAt), formatTime(user.UpdatedAt))
	return err
}

// AddAccount registers a customer or prospect record.
func (d *Directory) AddAccount(ctx context.Context, kind domain.AccountKind, id, name string) error {
	table, err := accountTable(kind)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `INSERT OR IGNORE INTO `+table+` (id, name) VALUES (?, ?)`, id, name)
	return err
}

func (d *Directory) UserExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

func (d *Directory) HomeDepartment(ctx context.Context, id string) (string, error) {
	user, err := d.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.Department, nil
}

func (d *Directory) HasRole(ctx context.Context, id, role string) (bool, error) {
	user, err := d.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.HasRole(role), nil
}

func (d *Directory) AccountExists(ctx context.Context, kind domain.AccountKind, id string) (bool, error) {
	table, err := accountTable(kind)
	if err != nil {
		return false, err
	}
	var n int
	err = d.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+table+` WHERE id = ?`, id).Scan(&n)
	return n > 0, err
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
