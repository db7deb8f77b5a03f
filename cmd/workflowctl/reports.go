package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/app"
)

func newSweepCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Persist the overdue status of late tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withWorkflow(cmd.Context(), func(_ *app.Backend, workflow *app.Workflow) error {
				marked, err := workflow.Tasks.SweepOverdue(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]int{"marked": marked})
			})
		},
	}
}

func newWeeklyStatsCmd(rt *runtime) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "weekly-stats",
		Short: "Tasks created and completed this week versus last week",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			return rt.withWorkflow(cmd.Context(), func(_ *app.Backend, workflow *app.Workflow) error {
				stats, err := workflow.Views.WeeklyStats(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return printJSON(cmd, stats)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user to report on")
	return cmd
}

func newRollupCmd(rt *runtime) *cobra.Command {
	var (
		userID string
		kind   string
	)
	cmd := &cobra.Command{
		Use:   "rollup",
		Short: "Open and overdue task counts per attached account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			return rt.withWorkflow(cmd.Context(), func(_ *app.Backend, workflow *app.Workflow) error {
				statuses, err := workflow.Views.OverdueRollup(cmd.Context(), userID, domain.AccountKind(kind))
				if err != nil {
					return err
				}
				return printJSON(cmd, statuses)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "caller whose visibility applies")
	cmd.Flags().StringVar(&kind, "kind", "", "customer or prospect, empty for both")
	return cmd
}
