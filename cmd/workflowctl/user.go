package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/app"
)

func newUserCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Provision directory entries",
	}

	var (
		email      string
		role       string
		department string
	)
	set := &cobra.Command{
		Use:   "set <id>",
		Short: "Create or update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return fmt.Errorf("user id must not be empty")
			}
			user := &domain.User{ID: id, Email: email, Role: role, Department: strings.TrimSpace(department)}
			return rt.withWorkflow(cmd.Context(), func(backend *app.Backend, workflow *app.Workflow) error {
				if user.Department != "" {
					if err := workflow.Support.CheckDepartment(user.Department); err != nil {
						return err
					}
				}
				if err := backend.Users.UpsertUser(cmd.Context(), user); err != nil {
					return err
				}
				return printJSON(cmd, user)
			})
		},
	}
	set.Flags().StringVar(&email, "email", "", "contact address")
	set.Flags().StringVar(&role, "role", "user", "directory role")
	set.Flags().StringVar(&department, "department", "", "home department, empty for none")

	cmd.AddCommand(set)
	return cmd
}
