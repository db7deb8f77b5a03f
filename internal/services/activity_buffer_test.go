package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/buffer"
)

type fakeHealth struct{ online bool }

func (f *fakeHealth) IsOnline() bool { return f.online }

type fakeActivityRepo struct {
	mu      sync.Mutex
	fail    bool
	entries []domain.Activity
}

func (r *fakeActivityRepo) Append(_ context.Context, activity domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("store unavailable")
	}
	r.entries = append(r.entries, activity)
	return nil
}

func (r *fakeActivityRepo) ListByItem(_ context.Context, kind domain.ItemKind, itemID string) ([]domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Activity
	for _, e := range r.entries {
		if e.ItemKind == kind && e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestBuffer(t *testing.T, health ConnectionHealth, repo *fakeActivityRepo, cfg BufferConfig) *ActivityBuffer {
	t.Helper()
	store, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewActivityBuffer(store, health, repo, nil, cfg)
}

func sampleActivity(id string) domain.Activity {
	return domain.Activity{
		ID:        id,
		ItemKind:  domain.KindTask,
		ItemID:    "t1",
		ActorID:   "alice",
		Action:    domain.ActionUpdated,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBridgeWritesThroughWhenOnline(t *testing.T) {
	repo := &fakeActivityRepo{}
	buf := newTestBuffer(t, &fakeHealth{online: true}, repo, BufferConfig{})
	bridge := NewActivityBridge(buf)

	require.NoError(t, bridge.Record(context.Background(), sampleActivity("a1")))
	assert.Len(t, repo.entries, 1)
	assert.Zero(t, buf.Size())
}

func TestBridgeBuffersAndDrains(t *testing.T) {
	ctx := context.Background()
	health := &fakeHealth{online: false}
	repo := &fakeActivityRepo{}
	buf := newTestBuffer(t, health, repo, BufferConfig{})
	bridge := NewActivityBridge(buf)

	require.NoError(t, bridge.Record(ctx, sampleActivity("a1")))
	require.NoError(t, bridge.Record(ctx, sampleActivity("a2")))
	assert.Equal(t, 2, buf.Size())
	assert.Empty(t, repo.entries)

	require.NoError(t, buf.Drain(ctx))
	assert.Equal(t, 2, buf.Size())

	health.online = true
	require.NoError(t, buf.Drain(ctx))
	assert.Zero(t, buf.Size())
	require.Len(t, repo.entries, 2)
	assert.Equal(t, domain.ActionUpdated, repo.entries[0].Action)
}

func TestBridgeBuffersWhenWriteFails(t *testing.T) {
	ctx := context.Background()
	repo := &fakeActivityRepo{fail: true}
	buf := newTestBuffer(t, &fakeHealth{online: true}, repo, BufferConfig{MaxRetries: 2})
	bridge := NewActivityBridge(buf)

	require.NoError(t, bridge.Record(ctx, sampleActivity("a1")))
	assert.Equal(t, 1, buf.Size())

	require.NoError(t, buf.Drain(ctx))
	assert.Equal(t, 1, buf.Size())

	require.NoError(t, buf.Drain(ctx))
	assert.Zero(t, buf.Size())
}

func TestActivityBufferExpire(t *testing.T) {
	repo := &fakeActivityRepo{}
	buf := newTestBuffer(t, &fakeHealth{online: false}, repo, BufferConfig{Retention: time.Hour})

	require.NoError(t, NewActivityBridge(buf).Record(context.Background(), sampleActivity("a1")))
	removed, err := buf.Expire(time.Now().Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Zero(t, buf.Size())
}

func TestSchedulerRejectsEmptyJob(t *testing.T) {
	s := NewScheduler(nil)
	assert.Error(t, s.Add(Job{Name: "noop"}))
	assert.NoError(t, s.Add(Job{Name: "tick", Interval: time.Minute, Run: func(context.Context) error { return nil }}))
	s.Start()
	s.Stop(context.Background())
}
