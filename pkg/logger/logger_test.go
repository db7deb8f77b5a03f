package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestIDAddsContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCallerID(ctx, "alice")
	WithRequestID(ctx, base).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "alice", fields["caller_id"])
}

func TestWithRequestIDWithoutValues(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, WithRequestID(context.Background(), base))
}

func TestNewFallsBackToInfo(t *testing.T) {
	log, err := New(Config{Level: "loud", Encoding: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "info", Encoding: "json", Output: &buf})
	require.NoError(t, err)

	log.Info("routed", zap.String("k", "v"))
	assert.Contains(t, buf.String(), `"msg":"routed"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}
