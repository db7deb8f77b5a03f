package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRejectsJobWithoutRun(t *testing.T) {
	s := NewScheduler(nil)
	assert.Error(t, s.Add(Job{Name: "empty"}))
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler(nil)
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add(Job{
		Name:     "tick",
		Interval: 100 * time.Millisecond,
		Run: func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	}))

	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestSchedulerStopHonoursContext(t *testing.T) {
	s := NewScheduler(nil)
	s.Start()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Stop(ctx)
}
