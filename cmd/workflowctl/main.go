// Package main implements workflowctl, the operator CLI of the workflow engine.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/app"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/config"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime is the state shared by subcommands, loaded before each run.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}
	var logLevel string

	root := &cobra.Command{
		Use:           "workflowctl",
		Short:         "Operate the task and reminder workflow engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(logger.Config{
				Level:    logLevel,
				Encoding: cfg.Logger.Encoding,
				Output:   cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.logger = log
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newMigrateCmd(rt),
		newUserCmd(rt),
		newSweepCmd(rt),
		newWeeklyStatsCmd(rt),
		newRollupCmd(rt),
	)
	return root
}

// withWorkflow opens the configured backend for the duration of fn.
func (rt *runtime) withWorkflow(ctx context.Context, fn func(*app.Backend, *app.Workflow) error) error {
	backend, err := app.Open(ctx, rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			rt.logger.Warn("failed to close backend", zap.Error(err))
		}
	}()

	workflow, err := app.NewWorkflow(rt.cfg, backend.Store, nil, rt.logger)
	if err != nil {
		return err
	}
	return fn(backend, workflow)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
