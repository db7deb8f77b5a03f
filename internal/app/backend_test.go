package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		Storage:  config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "nested", "wf.db")},
		Workflow: config.WorkflowConfig{SequencerBackend: config.SequencerStore},
	}
}

func TestOpenSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	backend, err := Open(ctx, sqliteConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	require.Len(t, backend.Checks, 1)
	assert.Equal(t, "sqlite", backend.Checks[0].Name)
	assert.NoError(t, backend.Checks[0].Probe(ctx))

	require.NoError(t, backend.Users.UpsertUser(ctx, &domain.User{ID: "alice", Role: domain.RoleAdmin}))
	admin, err := backend.Store.Identity.HasRole(ctx, "alice", domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin)

	first, err := backend.Store.Sequence.Next(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Storage.Driver = "mysql"
	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	backend, err := Open(context.Background(), sqliteConfig(t), nil)
	require.NoError(t, err)
	require.NoError(t, backend.Close())
	assert.NoError(t, backend.Close())
}
