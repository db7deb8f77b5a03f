package buffer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreDrainOrder(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Enqueue(Item{ID: "late", Entity: EntityActivity, Priority: 3, Timestamp: base.Add(time.Second)}))
	require.NoError(t, store.Enqueue(Item{ID: "early", Entity: EntityActivity, Priority: 3, Timestamp: base}))
	require.NoError(t, store.Enqueue(Item{ID: "urgent", Entity: EntityActivity, Priority: 1, Timestamp: base.Add(time.Hour)}))

	items, err := store.Peek(10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "urgent", items[0].ID)
	assert.Equal(t, "early", items[1].ID)
	assert.Equal(t, "late", items[2].ID)

	size, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestStoreAckAndRetry(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Item{ID: "a", Entity: EntityActivity}))
	require.NoError(t, store.Enqueue(Item{ID: "b", Entity: EntityActivity}))

	items, err := store.Peek(1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	first := items[0]

	require.NoError(t, store.Retry(first))
	items, err = store.Peek(10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[1].ID)
	assert.Equal(t, 1, items[1].Retries)

	require.NoError(t, store.Ack(items[0]))
	require.NoError(t, store.Ack(items[1]))
	size, err := store.Len()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestStorePurge(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	require.NoError(t, store.Enqueue(Item{ID: "old", Timestamp: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Enqueue(Item{ID: "fresh", Timestamp: now}))

	removed, err := store.Purge(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	items, err := store.Peek(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].ID)
}

func TestClosedStore(t *testing.T) {
	var store *Store
	assert.Error(t, store.Enqueue(Item{}))
	_, err := store.Len()
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}
