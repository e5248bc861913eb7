package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storecast.io/notifier/internal/api/middleware"
	"storecast.io/notifier/internal/app/modules"
)

func tokenCommand(load configLoader) *cobra.Command {
	var (
		userID string
		roles  []string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "mint an access token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--user is required")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			tok, exp, err := middleware.GenerateToken(modules.JWTConfig(cfg.Security), userID, roles)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (token subject)")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "role to grant; repeatable (e.g. --role staff)")
	return cmd
}
