package app

import (
	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/config"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase"
	reminderUC "github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/reminder"
	taskUC "github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/task"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase/views"
)

// Workflow groups the use cases built over one store.
type Workflow struct {
	Support   *usecase.Support
	Tasks     *taskUC.UseCase
	Reminders *reminderUC.UseCase
	Views     *views.UseCase
}

// NewWorkflow applies the workflow settings. A nil recorder writes activity straight to the store.
func NewWorkflow(cfg *config.Config, store repository.Store, recorder usecase.ActivityRecorder, logger *zap.Logger) (*Workflow, error) {
	location, err := cfg.WeekLocation()
	if err != nil {
		return nil, err
	}
	opts := []usecase.Option{
		usecase.WithDepartments(cfg.Workflow.Departments),
		usecase.WithPolicy(domain.PolicyFor(cfg.Workflow.StrictTransitions)),
		usecase.WithAdminRole(cfg.Workflow.AdminRole),
		usecase.WithLocation(location),
		usecase.WithLogger(logger),
	}
	if recorder != nil {
		opts = append(opts, usecase.WithRecorder(recorder))
	}
	support := usecase.NewSupport(store, opts...)

	return &Workflow{
		Support:   support,
		Tasks:     taskUC.New(store.Tasks, support, logger),
		Reminders: reminderUC.New(store.Reminders, support, logger),
		Views:     views.New(store, support, logger),
	}, nil
}
