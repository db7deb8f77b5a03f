package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestAttachPropagatesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set("X-Request-ID", "req-42")
	rc.Request.Header.Set(CallerHeader, " alice ")

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	assert.Equal(t, "req-42", string(rc.Response.Header.Peek("X-Request-ID")))
	assert.Equal(t, "alice", CallerID(&rc))
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestAttachGeneratesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	_, cancel := NewAdapter(0).Attach(&rc)
	defer cancel()

	assert.NotEmpty(t, string(rc.Response.Header.Peek("X-Request-ID")))
	assert.Empty(t, CallerID(&rc))
}
