package redis

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedMax map[string]int64

func (m storedMax) MaxOrder(_ context.Context, creatorID string) (int64, error) {
	return m[creatorID], nil
}

func newTestSequencer(t *testing.T, seed storedMax) *sequencer {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSequencer(client, seed).(*sequencer)
}

func TestSequencerSeedsFromStoredMax(t *testing.T) {
	ctx := context.Background()
	seq := newTestSequencer(t, storedMax{"alice": 41})

	first, err := seq.Next(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(42), first)

	second, err := seq.Next(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(43), second)

	fresh, err := seq.Next(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh)
}

func TestSequencerIncreasesStrictly(t *testing.T) {
	ctx := context.Background()
	seq := newTestSequencer(t, storedMax{"alice": 7})

	previous := int64(7)
	for i := 0; i < 10; i++ {
		next, err := seq.Next(ctx, "alice")
		require.NoError(t, err)
		assert.Greater(t, next, previous)
		previous = next
	}
}

func TestSequencerConcurrentCallsAreDistinct(t *testing.T) {
	ctx := context.Background()
	seq := newTestSequencer(t, storedMax{"alice": 100})

	const callers = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]struct{}, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next, err := seq.Next(ctx, "alice")
			assert.NoError(t, err)
			mu.Lock()
			seen[next] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, callers)
	for value := range seen {
		assert.Greater(t, value, int64(100))
		assert.LessOrEqual(t, value, int64(100+callers))
	}
}
