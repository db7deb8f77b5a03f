package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestShutdownRunsHooksInReverse(t *testing.T) {
	m := New(0, nil)
	var order []string
	m.Register("store", func(context.Context) error {
		order = append(order, "store")
		return nil
	})
	m.RegisterCloser("buffer", closerFunc(func() error {
		order = append(order, "buffer")
		return errors.New("already closed")
	}))
	m.Register("http", func(context.Context) error {
		order = append(order, "http")
		return nil
	})

	assert.Equal(t, []string{"http", "buffer", "store"}, m.Components())

	err := m.Shutdown(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []string{"http", "buffer", "store"}, order)
}

func TestShutdownSkipsAfterDeadline(t *testing.T) {
	m := New(0, nil)
	ran := false
	m.Register("late", func(context.Context) error {
		ran = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Shutdown(ctx), context.Canceled)
	assert.False(t, ran)
}
