package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/service"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		migrate    bool
		sweepEvery time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the circulation HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := c.service(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			if migrate {
				if err = svc.Migrate(ctx); err != nil {
					return err
				}
			}

			if sweepEvery > 0 {
				go runSweeps(ctx, svc, sweepEvery)
			}

			server := svc.Server()
			errCh := make(chan error, 1)

			go func() {
				errCh <- server.Listen(c.cfg.HTTP.Addr())
			}()

			svc.Logger.Info("circulation serving", "addr", c.cfg.HTTP.Addr(), "version", version)

			select {
			case err = <-errCh:
				return fmt.Errorf("serving: %w", err)
			case <-ctx.Done():
			}

			svc.Logger.Info("circulation shutting down")

			return errors.Join(server.Shutdown(), <-errCh)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Create the event and policy tables before serving")
	cmd.Flags().DurationVar(&sweepEvery, "sweep-every", 0,
		"Run the reservation expiry and overdue sweeps for all libraries at this interval (0 disables)")

	return cmd
}

// runSweeps is the built-in scheduler. An external scheduler can call 'circulation sweep' instead.
func runSweeps(ctx context.Context, svc *service.Service, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, sweep := range sweeps {
				if _, err := sweep.run(ctx, svc, schedulerActor(), "", now); err != nil {
					svc.Logger.Warn("scheduled sweep failed", "sweep", sweep.name, "error", err.Error())
				}
			}
		}
	}
}
