package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the events table and the policy table if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			if err = svc.Migrate(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "migrated (store: %s, policy store: %s)\n", c.cfg.Store.Driver, c.cfg.PolicyStore.Driver)

			return nil
		},
	}
}
