package router

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/Pazificateur69/CRM-NetStrategy-sub001/api/handler"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/monitor"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/middleware"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/testutil"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/pkg/httpcontext"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase"
	reminderUC "github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/reminder"
	taskUC "github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/task"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/views"
)

const secret = "router-test"

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Meta   json.RawMessage `json:"meta"`
}

type api struct {
	handler fasthttp.RequestHandler
	fx      *testutil.Fixture
}

func newAPI(t *testing.T) *api {
	t.Helper()
	fx := testutil.NewFixture(t)
	fx.AddUser(t, "alice", "user", "dev")
	fx.AddUser(t, "bob", "user", "seo")
	fx.AddAccount(t, domain.AccountCustomer, "acme")

	support := usecase.NewSupport(fx.Store, usecase.WithClock(fx.Clock()))
	viewsUC := views.New(fx.Store, support, nil)
	adapter := httpcontext.NewAdapter(time.Second)
	paging := apiHandler.Paging{Default: 10, Max: 20}

	mon := monitor.New([]monitor.Check{monitor.SQLCheck("sqlite", fx.DB.DB)}, nil, 0, nil)

	r := New(Handlers{
		Task:     apiHandler.NewTaskHandler(taskUC.New(fx.Store.Tasks, support, nil), viewsUC, adapter, paging, nil),
		Reminder: apiHandler.NewReminderHandler(reminderUC.New(fx.Store.Reminders, support, nil), viewsUC, adapter, paging, nil),
		Views:    apiHandler.NewViewsHandler(viewsUC, adapter, nil),
		Health:   apiHandler.NewHealthHandler(mon, adapter, nil),
	}, middleware.JWTAuth(secret, "", nil))

	return &api{handler: r.Handler, fx: fx}
}

func token(t *testing.T, userID string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID}).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func (a *api) do(t *testing.T, user, method, uri, body string) (int, envelope) {
	t.Helper()
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if user != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token(t, user))
	}
	if body != "" {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBodyString(body)
	}
	a.handler(&ctx)

	var env envelope
	if raw := ctx.Response.Body(); len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return ctx.Response.StatusCode(), env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t)

	status, env := a.do(t, "alice", http.MethodPost, "/api/v1/tasks",
		`{"title":"Write brief","due_at":"2024-01-12T00:00:00Z","attached_to":{"kind":"customer","id":"acme"}}`)
	require.Equal(t, http.StatusCreated, status, string(env.Data))
	created := decode[domain.Task](t, env.Data)
	assert.Equal(t, "dev", created.Department)
	assert.Equal(t, "alice", created.Assignee)
	assert.Equal(t, domain.TaskPlanned, created.Status)
	require.NotNil(t, created.DueAt)

	status, env = a.do(t, "alice", http.MethodGet, "/api/v1/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, decode[domain.Task](t, env.Data).ID)

	status, env = a.do(t, "alice", http.MethodPut, "/api/v1/tasks/"+created.ID, `{"due_at":null,"status":"in_progress"}`)
	require.Equal(t, http.StatusOK, status)
	updated := decode[domain.Task](t, env.Data)
	assert.Nil(t, updated.DueAt)
	assert.Equal(t, domain.TaskInProgress, updated.Status)

	status, _ = a.do(t, "bob", http.MethodPut, "/api/v1/tasks/"+created.ID, `{"title":"hijack"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = a.do(t, "alice", http.MethodGet, "/api/v1/tasks/"+created.ID+"/activity", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]domain.Activity](t, env.Data), 2)

	a.fx.Advance(time.Minute)
	status, _ = a.do(t, "alice", http.MethodDelete, "/api/v1/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, env = a.do(t, "alice", http.MethodGet, "/api/v1/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestTaskValidationErrorsCarryFields(t *testing.T) {
	a := newAPI(t)

	status, env := a.do(t, "alice", http.MethodPost, "/api/v1/tasks", `{"title":"","priority":"urgent"}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID", env.Code)
	meta := decode[map[string]map[string]string](t, env.Meta)
	assert.Contains(t, meta["fields"], "title")
	assert.Contains(t, meta["fields"], "priority")

	status, _ = a.do(t, "alice", http.MethodPost, "/api/v1/tasks", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuthIsRequired(t *testing.T) {
	a := newAPI(t)

	status, env := a.do(t, "", http.MethodGet, "/api/v1/me/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	status, _ = a.do(t, "", http.MethodGet, "/health", "")
	assert.NotEqual(t, http.StatusUnauthorized, status)
}

func TestReminderRoutes(t *testing.T) {
	a := newAPI(t)

	status, env := a.do(t, "alice", http.MethodPost, "/api/v1/reminders",
		`{"title":"Call back","remind_at":"2024-01-11T09:00:00Z","assignees":["bob"]}`)
	require.Equal(t, http.StatusCreated, status, string(env.Data))
	created := decode[domain.Reminder](t, env.Data)
	assert.Equal(t, "seo", created.Department)
	assert.Equal(t, []string{"bob"}, created.Assignees)

	status, env = a.do(t, "bob", http.MethodPost, "/api/v1/reminders/"+created.ID+"/postpone", `{"days":2}`)
	require.Equal(t, http.StatusOK, status)
	postponed := decode[domain.Reminder](t, env.Data)
	require.NotNil(t, postponed.RemindAt)
	assert.True(t, postponed.RemindAt.Equal(time.Date(2024, 1, 13, 9, 0, 0, 0, time.UTC)))

	status, _ = a.do(t, "bob", http.MethodPost, "/api/v1/reminders/"+created.ID+"/postpone", `{"days":0}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = a.do(t, "alice", http.MethodPut, "/api/v1/reminders/"+created.ID+"/assignees", `{"user_ids":["alice","bob"]}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"alice", "bob"}, decode[domain.Reminder](t, env.Data).Assignees)

	status, _ = a.do(t, "alice", http.MethodPut, "/api/v1/reminders/"+created.ID, `{"remind_at":null}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = a.do(t, "alice", http.MethodPut, "/api/v1/reminders/"+created.ID, `{"done":true}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.ReminderDone, decode[domain.Reminder](t, env.Data).Status)

	status, env = a.do(t, "bob", http.MethodGet, "/api/v1/me/reminders", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]domain.Reminder](t, env.Data), 1)
}

func TestMeAndDashboardRoutes(t *testing.T) {
	a := newAPI(t)

	status, _ := a.do(t, "alice", http.MethodPost, "/api/v1/tasks", `{"title":"Mine"}`)
	require.Equal(t, http.StatusCreated, status)

	status, env := a.do(t, "alice", http.MethodGet, "/api/v1/me/tasks?grouped=1", "")
	require.Equal(t, http.StatusOK, status)
	groups := decode[[]views.Group[domain.Task]](t, env.Data)
	require.Len(t, groups, 1)
	assert.Equal(t, "dev", groups[0].Department)

	status, env = a.do(t, "alice", http.MethodGet, "/api/v1/me/stats/weekly", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, decode[views.WeeklyStats](t, env.Data).Created.Current)

	status, _ = a.do(t, "alice", http.MethodGet, "/api/v1/dashboard/overdue?kind=bogus", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = a.do(t, "alice", http.MethodGet, "/api/v1/dashboard/accounts/customer/acme", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, views.IndicatorOK, decode[views.AccountStatus](t, env.Data).Indicator)

	status, env = a.do(t, "alice", http.MethodGet, "/api/v1/tasks?department=dev&limit=500", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]domain.Task](t, env.Data), 1)
	meta := decode[map[string]int](t, env.Meta)
	assert.Equal(t, map[string]int{"limit": 20, "offset": 0, "count": 1}, meta)
}

func TestHealthIsPublic(t *testing.T) {
	a := newAPI(t)

	status, env := a.do(t, "", http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DEGRADED", env.Code)
}
