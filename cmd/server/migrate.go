package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storecast.io/notifier/internal/infrastructure"
)

func migrateCommand(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "apply all pending schema and River migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := infrastructure.MigrateUp(cfg.Database.DSN()); err != nil {
				return err
			}
			db, err := infrastructure.NewDatabaseClients(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			defer db.Close()
			return db.MigrateRiver(cmd.Context())
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "roll back schema migrations",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return infrastructure.MigrateDown(cfg.Database.DSN(), steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back; 0 rolls back everything")

	cmd.AddCommand(up, down)
	return cmd
}
