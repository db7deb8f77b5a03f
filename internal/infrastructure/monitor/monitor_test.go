package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitorRefresh(t *testing.T) {
	storeUp := true
	checks := []Check{
		{Name: "store", Critical: true, Probe: func(context.Context) error {
			if storeUp {
				return nil
			}
			return errors.New("down")
		}},
		{Name: "cache", Probe: func(context.Context) error { return errors.New("down") }},
	}
	m := New(checks, nil, 0, nil)

	assert.False(t, m.IsOnline())

	m.Refresh()
	assert.True(t, m.IsOnline())
	status := m.GetStatus()
	assert.Equal(t, map[string]bool{"store": true, "cache": false}, status.Services)
	assert.False(t, status.Healthy())
	assert.False(t, status.Buffer)

	storeUp = false
	m.Refresh()
	assert.False(t, m.IsOnline())
}

func TestMonitorStopIsIdempotent(t *testing.T) {
	m := New(nil, nil, 0, nil)
	m.Stop()
	m.Stop()
}
