package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/config"
	pgInfra "github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/postgres"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository/sqlite"
)

func newMigrateCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch rt.cfg.Storage.Driver {
			case config.DriverSQLite:
				db, err := sqlite.Open(rt.cfg.Storage.SQLitePath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.Init(); err != nil {
					return err
				}
			default:
				cfg := *rt.cfg
				cfg.Migrations.Enabled = true
				if err := pgInfra.RunMigrations(&cfg, rt.logger); err != nil {
					return err
				}
			}
			return printJSON(cmd, map[string]string{"status": "migrated", "driver": rt.cfg.Storage.Driver})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfg.Storage.Driver != config.DriverPostgres {
				return fmt.Errorf("rollback is only supported for %s", config.DriverPostgres)
			}
			if err := pgInfra.RollbackMigrations(rt.cfg, steps, rt.logger); err != nil {
				return err
			}
			return printJSON(cmd, map[string]interface{}{"status": "rolled_back", "steps": steps})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")

	cmd.AddCommand(up, down)
	return cmd
}
