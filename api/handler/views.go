package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/pkg/httpcontext"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/views"
)

// ViewsHandler serves the caller-centric listings and the dashboard rollup.
type ViewsHandler struct {
	baseHandler
	uc *views.UseCase
}

func NewViewsHandler(uc *views.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ViewsHandler {
	return &ViewsHandler{
		baseHandler: newBaseHandler(adapter, Paging{}, logger),
		uc:          uc,
	}
}

// @Summary My tasks
// @Tags me
// @Router /api/v1/me/tasks [get]
func (h *ViewsHandler) MyTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var (
		data interface{}
		err  error
	)
	if flag(ctx, "grouped") {
		data, err = h.uc.MyTasksGrouped(stdCtx, userID)
	} else {
		data, err = h.uc.MyTasks(stdCtx, userID)
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, data)
}

// @Summary My reminders
// @Tags me
// @Router /api/v1/me/reminders [get]
func (h *ViewsHandler) MyReminders(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var (
		data interface{}
		err  error
	)
	if flag(ctx, "grouped") {
		data, err = h.uc.MyRemindersGrouped(stdCtx, userID)
	} else {
		data, err = h.uc.MyReminders(stdCtx, userID)
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, data)
}

// @Summary Weekly task counters
// @Tags me
// @Router /api/v1/me/stats/weekly [get]
func (h *ViewsHandler) WeeklyStats(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.uc.WeeklyStats(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

// @Summary Overdue rollup per account
// @Tags dashboard
// @Router /api/v1/dashboard/overdue [get]
func (h *ViewsHandler) OverdueRollup(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	kind := domain.AccountKind(ctx.QueryArgs().Peek("kind"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	statuses, err := h.uc.OverdueRollup(stdCtx, userID, kind)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, statuses)
}

// @Summary Indicator of one account
// @Tags dashboard
// @Router /api/v1/dashboard/accounts/{kind}/{id} [get]
func (h *ViewsHandler) AccountIndicator(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}
	kind, _ := ctx.UserValue("kind").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status, err := h.uc.AccountIndicator(stdCtx, userID, domain.Attachment{Kind: domain.AccountKind(kind), ID: id})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, status)
}
