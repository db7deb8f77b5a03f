package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/Pazificateur69/CRM-NetStrategy-sub001/api/handler"
)

type Handlers struct {
	Task     *apiHandler.TaskHandler
	Reminder *apiHandler.ReminderHandler
	Views    *apiHandler.ViewsHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	api := r.Group("/api/v1")

	api.GET("/tasks", authMiddleware(handlers.Task.ListTasks))
	api.POST("/tasks", authMiddleware(handlers.Task.CreateTask))
	api.GET("/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	api.PUT("/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	api.DELETE("/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	api.GET("/tasks/{id}/activity", authMiddleware(handlers.Task.Activity))

	api.GET("/reminders", authMiddleware(handlers.Reminder.ListReminders))
	api.POST("/reminders", authMiddleware(handlers.Reminder.CreateReminder))
	api.GET("/reminders/{id}", authMiddleware(handlers.Reminder.GetReminder))
	api.PUT("/reminders/{id}", authMiddleware(handlers.Reminder.UpdateReminder))
	api.DELETE("/reminders/{id}", authMiddleware(handlers.Reminder.DeleteReminder))
	api.POST("/reminders/{id}/postpone", authMiddleware(handlers.Reminder.Postpone))
	api.PUT("/reminders/{id}/assignees", authMiddleware(handlers.Reminder.SyncAssignees))
	api.GET("/reminders/{id}/activity", authMiddleware(handlers.Reminder.Activity))

	api.GET("/me/tasks", authMiddleware(handlers.Views.MyTasks))
	api.GET("/me/reminders", authMiddleware(handlers.Views.MyReminders))
	api.GET("/me/stats/weekly", authMiddleware(handlers.Views.WeeklyStats))

	api.GET("/dashboard/overdue", authMiddleware(handlers.Views.OverdueRollup))
	api.GET("/dashboard/accounts/{kind}/{id}", authMiddleware(handlers.Views.AccountIndicator))

	return r
}
