package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"storecast.io/notifier/internal/app"
)

func sweepCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "dispatch every due campaign and post once, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			application, err := app.Bootstrap(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			defer application.Shutdown()

			res := application.Scheduler.Sweep(cmd.Context(), time.Now())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}
