package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("WORKFLOW_DEPARTMENTS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, SequencerStore, cfg.Workflow.SequencerBackend)
	assert.Equal(t, "admin", cfg.Workflow.AdminRole)
	assert.False(t, cfg.Workflow.StrictTransitions)
	assert.Empty(t, cfg.Workflow.Departments)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.OverdueSweep)
	assert.Equal(t, "./assets/migrations", cfg.Migrations.Path)
	assert.Contains(t, cfg.Database.URL, "postgres://")
}

func TestLoadWorkflowOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/wf.db")
	t.Setenv("WORKFLOW_DEPARTMENTS", "dev, seo,,ads ")
	t.Setenv("WORKFLOW_STRICT_TRANSITIONS", "true")
	t.Setenv("WORKFLOW_WEEK_LOCATION", "Local")
	t.Setenv("SEQUENCER_BACKEND", "redis")
	t.Setenv("OVERDUE_SWEEP_INTERVAL", "90")
	t.Setenv("SERVER_DEFAULT_PAGE_SIZE", "500")
	t.Setenv("SERVER_MAX_PAGE_SIZE", "100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/wf.db", cfg.Storage.SQLitePath)
	assert.Equal(t, []string{"dev", "seo", "ads"}, cfg.Workflow.Departments)
	assert.True(t, cfg.Workflow.StrictTransitions)
	assert.Equal(t, SequencerRedis, cfg.Workflow.SequencerBackend)
	assert.Equal(t, 90*time.Second, cfg.Scheduler.OverdueSweep)
	assert.Equal(t, 500, cfg.HTTP.MaxPageSize)

	loc, err := cfg.WeekLocation()
	require.NoError(t, err)
	assert.Equal(t, "Local", loc.String())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownSequencer(t *testing.T) {
	t.Setenv("SEQUENCER_BACKEND", "etcd")
	_, err := Load()
	assert.Error(t, err)
}
