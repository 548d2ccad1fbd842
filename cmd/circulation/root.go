package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/config"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/service"
)

// cli carries the state shared by all commands of one invocation.
type cli struct {
	out        io.Writer
	logOut     io.Writer
	configPath string
	cfg        *config.Config
}

func newRootCmd(out, logOut io.Writer) *cobra.Command {
	c := &cli{out: out, logOut: logOut}

	root := &cobra.Command{
		Use:   "circulation",
		Short: "Library circulation consistency engine",
		Long: `circulation keeps the copies, loans, issue requests and reservations of library books consistent.

Every operation is decided on an event-sourced view of the book and committed with an
all-or-nothing conditional append. Run 'circulation serve' to expose the HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "",
		"Config file path (default: $CIRCULATION_CONFIG or ~/.config/circulation/config.yml)")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		// config init writes the file the other commands read
		if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}

		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}

		c.cfg = cfg

		return nil
	}

	root.AddCommand(
		newServeCmd(c),
		newSweepCmd(c),
		newMigrateCmd(c),
		newPolicyCmd(c),
		newConfigCmd(c),
	)

	return root
}

// service builds the service from the loaded config. The caller closes it.
func (c *cli) service(ctx context.Context) (*service.Service, error) {
	return service.Build(ctx, c.cfg, version, c.logOut)
}
