package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/api/transport"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/pkg/httpcontext"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/views"
)

// Paging bounds the limit query parameter of listings.
type Paging struct {
	Default int
	Max     int
}

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
	paging  Paging
}

func newBaseHandler(adapter *httpcontext.Adapter, paging Paging, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if paging.Default <= 0 {
		paging.Default = 50
	}
	if paging.Max < paging.Default {
		paging.Max = paging.Default
	}
	return baseHandler{adapter: adapter, logger: logger, paging: paging}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondPage(ctx *fasthttp.RequestCtx, page views.Page, count int, data interface{}) {
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(data, transport.PageMeta{
		Limit:  page.Limit,
		Offset: page.Offset,
		Count:  count,
	}))
}

func (h baseHandler) respondNoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusNoContent)
	ctx.ResetBody()
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	var meta interface{}
	if fields := domain.FieldErrors(err); len(fields) > 0 {
		meta = map[string]interface{}{"fields": fields}
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err),
		)
		h.respondJSON(ctx, status, transport.NewError(code, "internal error", nil))
		return
	}
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), meta))
}

func (h baseHandler) badRequest(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), message, nil))
}

// decode parses the JSON body into dst, answering 400 on failure.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.badRequest(ctx, "invalid payload")
		return false
	}
	return true
}

// userID returns the authenticated caller, answering 401 when the header is missing.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID := httpcontext.CallerID(ctx)
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
	}
	return userID
}

func (h baseHandler) pathID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.badRequest(ctx, "missing id")
	}
	return id
}

func (h baseHandler) page(ctx *fasthttp.RequestCtx) views.Page {
	args := ctx.QueryArgs()
	limit := parseInt(string(args.Peek("limit")), h.paging.Default)
	if limit <= 0 {
		limit = h.paging.Default
	}
	if limit > h.paging.Max {
		limit = h.paging.Max
	}
	offset := parseInt(string(args.Peek("offset")), 0)
	if offset < 0 {
		offset = 0
	}
	return views.Page{Limit: limit, Offset: offset}
}

// scope reads ?department=X or ?scope=global. Neither means every visible department.
func scope(ctx *fasthttp.RequestCtx) *domain.DepartmentScope {
	args := ctx.QueryArgs()
	if string(args.Peek("scope")) == "global" {
		return domain.GlobalScope()
	}
	if department := string(args.Peek("department")); department != "" {
		return domain.InDepartment(department)
	}
	return nil
}

func flag(ctx *fasthttp.RequestCtx, name string) bool {
	value := string(ctx.QueryArgs().Peek(name))
	ok, err := strconv.ParseBool(value)
	return err == nil && ok
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
