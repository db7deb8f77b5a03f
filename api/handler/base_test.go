package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.InvalidField("title", "is required"), http.StatusBadRequest, "INVALID"},
		{domain.ErrTaskNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.NewError(domain.ErrCodeConflict, "busy"), http.StatusConflict, "CONFLICT"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		status, code := mapError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code)
	}
}

func TestPageClamp(t *testing.T) {
	h := newBaseHandler(nil, Paging{Default: 10, Max: 25}, nil)

	tests := map[string][2]int{
		"":                   {10, 0},
		"limit=5&offset=3":   {5, 3},
		"limit=100":          {25, 0},
		"limit=-1&offset=-4": {10, 0},
		"limit=abc":          {10, 0},
	}
	for query, want := range tests {
		var ctx fasthttp.RequestCtx
		ctx.Request.SetRequestURI("/api/v1/tasks?" + query)
		page := h.page(&ctx)
		assert.Equal(t, want[0], page.Limit, query)
		assert.Equal(t, want[1], page.Offset, query)
	}
}

func TestScope(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/tasks")
	assert.Nil(t, scope(&ctx))

	ctx.Request.SetRequestURI("/api/v1/tasks?scope=global")
	assert.Equal(t, domain.GlobalScope(), scope(&ctx))

	ctx.Request.SetRequestURI("/api/v1/tasks?department=seo")
	assert.Equal(t, domain.InDepartment("seo"), scope(&ctx))
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	h := newBaseHandler(nil, Paging{}, nil)
	var ctx fasthttp.RequestCtx
	h.respondError(&ctx, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
	assert.NotContains(t, string(ctx.Response.Body()), "password")
}
