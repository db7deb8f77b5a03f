package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/Pazificateur69/CRM-NetStrategy-sub001/api/handler"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/app"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/config"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/buffer"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/monitor"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/middleware"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/router"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/services"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/services/lifecycle"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/pkg/httpcontext"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.JWT.Secret == "" {
		zapLogger.Fatal("JWT_SECRET must be set")
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	backend, err := app.Open(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage initialisation failed", zap.Error(err))
	}
	for _, closer := range backend.Closers {
		closeFn := closer.Close
		manager.Register(closer.Name, func(ctx context.Context) error {
			return closeFn()
		})
	}

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "activity")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.RegisterCloser("buffer", bufferStore)

	mon := monitor.New(backend.Checks, bufferStore, cfg.Scheduler.MonitorInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	activityBuffer := services.NewActivityBuffer(
		bufferStore,
		mon,
		backend.Store.Activity,
		zapLogger,
		services.BufferConfig{
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)

	manager.Register("activity_flush", activityBuffer.Drain)

	workflow, err := app.NewWorkflow(cfg, backend.Store, services.NewActivityBridge(activityBuffer), zapLogger)
	if err != nil {
		zapLogger.Fatal("workflow initialisation failed", zap.Error(err))
	}

	if cfg.Scheduler.Enabled {
		scheduler := services.NewScheduler(zapLogger)
		jobs := []services.Job{
			{Name: "activity_drain", Interval: cfg.Buffer.SyncInterval, Run: activityBuffer.Drain},
			{Name: "overdue_sweep", Interval: cfg.Scheduler.OverdueSweep, Run: func(ctx context.Context) error {
				_, err := workflow.Tasks.SweepOverdue(ctx)
				return err
			}},
			{Name: "buffer_expiry", Interval: time.Hour, Run: func(ctx context.Context) error {
				_, err := activityBuffer.Expire(time.Now())
				return err
			}},
		}
		for _, job := range jobs {
			if err := scheduler.Add(job); err != nil {
				zapLogger.Fatal("failed to schedule job", zap.String("job", job.Name), zap.Error(err))
			}
		}
		scheduler.Start()
		manager.Register("scheduler", func(ctx context.Context) error {
			scheduler.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	paging := apiHandler.Paging{Default: cfg.HTTP.DefaultPageSize, Max: cfg.HTTP.MaxPageSize}

	handlers := router.Handlers{
		Task:     apiHandler.NewTaskHandler(workflow.Tasks, workflow.Views, ctxAdapter, paging, zapLogger),
		Reminder: apiHandler.NewReminderHandler(workflow.Reminders, workflow.Views, ctxAdapter, paging, zapLogger),
		Views:    apiHandler.NewViewsHandler(workflow.Views, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.Strings("components", manager.Components()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
