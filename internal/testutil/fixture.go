// Package testutil builds throwaway SQLite-backed stores for use-case and handler tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository/sqlite"
)

// Fixture is a fresh store with a controllable clock.
type Fixture struct {
	DB        *sqlite.DB
	Store     repository.Store
	Directory *sqlite.Directory
	now       time.Time
}

func NewFixture(t testing.TB) *Fixture {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "workflow.db"))
	require.NoError(t, err)
	require.NoError(t, db.Init())
	t.Cleanup(func() { _ = db.Close() })

	return &Fixture{
		DB:        db,
		Store:     sqlite.NewStore(db),
		Directory: sqlite.NewDirectory(db),
		now:       time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

// Clock returns a clock that follows SetNow and Advance.
func (f *Fixture) Clock() func() time.Time {
	return func() time.Time { return f.now }
}

func (f *Fixture) Now() time.Time {
	return f.now
}

func (f *Fixture) SetNow(now time.Time) {
	f.now = now
}

func (f *Fixture) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *Fixture) AddUser(t testing.TB, id, role, department string) {
	t.Helper()
	require.NoError(t, f.Directory.UpsertUser(context.Background(), &domain.User{
		ID:         id,
		Email:      id + "@example.com",
		Role:       role,
		Department: department,
	}))
}

func (f *Fixture) AddAccount(t testing.TB, kind domain.AccountKind, id string) {
	t.Helper()
	require.NoError(t, f.Directory.AddAccount(context.Background(), kind, id, id))
}
