package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/expirestalereservations"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/markoverdueloans"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/service"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
)

const schedulerID = "scheduler"

type sweep struct {
	name  string
	short string
	run   func(ctx context.Context, svc *service.Service, actor core.Actor, libraryID string, now time.Time) (shell.HandlerResult, error)
}

var sweeps = []sweep{
	{
		name:  "expire",
		short: "Expire holds past their hold window and pass the copies on",
		run: func(ctx context.Context, svc *service.Service, actor core.Actor, libraryID string, now time.Time) (shell.HandlerResult, error) {
			return svc.Handlers.ExpireStaleReservations.Handle(ctx, expirestalereservations.BuildCommand(actor, libraryID, now))
		},
	},
	{
		name:  "overdue",
		short: "Mark loans past their due date as overdue and notify the members",
		run: func(ctx context.Context, svc *service.Service, actor core.Actor, libraryID string, now time.Time) (shell.HandlerResult, error) {
			return svc.Handlers.MarkOverdueLoans.Handle(ctx, markoverdueloans.BuildCommand(actor, libraryID, now))
		},
	},
}

func schedulerActor() core.Actor {
	return core.Actor{ID: schedulerID, Role: core.RoleSystem}
}

func newSweepCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a sweep once, e.g. from cron",
	}

	for _, s := range sweeps {
		var (
			libraryID string
			at        string
		)

		sub := &cobra.Command{
			Use:   s.name,
			Short: s.short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				now := time.Now()
				if at != "" {
					parsed, err := time.Parse(time.RFC3339, at)
					if err != nil {
						return fmt.Errorf("--at must be RFC 3339: %w", err)
					}
					now = parsed
				}

				svc, err := c.service(cmd.Context())
				if err != nil {
					return err
				}
				defer svc.Close()

				result, err := s.run(cmd.Context(), svc, schedulerActor(), libraryID, now)
				fmt.Fprintf(c.out, "%s sweep: %d events, idempotent=%t\n", s.name, len(result.Events), result.Idempotent)

				return err
			},
		}

		sub.Flags().StringVar(&libraryID, "library", "", "Restrict the sweep to one library (default: all)")
		sub.Flags().StringVar(&at, "at", "", "Sweep as of this RFC 3339 time instead of now")

		cmd.AddCommand(sub)
	}

	return cmd
}
