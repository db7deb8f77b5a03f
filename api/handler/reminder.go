package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/api/transport"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/pkg/httpcontext"
	reminderUC "github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/reminder"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/views"
)

type ReminderHandler struct {
	baseHandler
	uc    *reminderUC.UseCase
	views *views.UseCase
}

func NewReminderHandler(uc *reminderUC.UseCase, viewsUC *views.UseCase, adapter *httpcontext.Adapter, paging Paging, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		baseHandler: newBaseHandler(adapter, paging, logger),
		uc:          uc,
		views:       viewsUC,
	}
}

// @Summary List reminders by department
// @Tags reminders
// @Router /api/v1/reminders [get]
func (h *ReminderHandler) ListReminders(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page := h.page(ctx)
	reminders, err := h.views.RemindersByDepartment(stdCtx, userID, scope(ctx), page)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondPage(ctx, page, len(reminders), reminders)
}

// @Summary Create reminder
// @Tags reminders
// @Router /api/v1/reminders [post]
func (h *ReminderHandler) CreateReminder(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ReminderCreateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateReminder(stdCtx, userID, req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get reminder
// @Tags reminders
// @Router /api/v1/reminders/{id} [get]
func (h *ReminderHandler) GetReminder(ctx *fasthttp.RequestCtx) {
	if h.userID(ctx) == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	reminder, err := h.uc.GetReminder(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, reminder)
}

// @Summary Update reminder
// @Tags reminders
// @Router /api/v1/reminders/{id} [put]
func (h *ReminderHandler) UpdateReminder(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	var req transport.ReminderPatchRequest
	if !h.decode(ctx, &req) {
		return
	}
	if req.RemindAt.Cleared() {
		h.respondError(ctx, domain.InvalidField("remind_at", "is required"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateReminder(stdCtx, userID, id, req.Patch())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete reminder
// @Tags reminders
// @Router /api/v1/reminders/{id} [delete]
func (h *ReminderHandler) DeleteReminder(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteReminder(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Postpone reminder
// @Tags reminders
// @Router /api/v1/reminders/{id}/postpone [post]
func (h *ReminderHandler) Postpone(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	var req transport.PostponeRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Postpone(stdCtx, userID, id, req.Days)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Replace reminder assignees
// @Tags reminders
// @Router /api/v1/reminders/{id}/assignees [put]
func (h *ReminderHandler) SyncAssignees(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	var req transport.AssigneesRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.SyncAssignees(stdCtx, userID, id, req.UserIDs)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Reminder activity log
// @Tags reminders
// @Router /api/v1/reminders/{id}/activity [get]
func (h *ReminderHandler) Activity(ctx *fasthttp.RequestCtx) {
	if h.userID(ctx) == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.views.Activity(stdCtx, domain.KindReminder, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}
