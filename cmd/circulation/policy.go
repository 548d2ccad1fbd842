package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/config"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/policy"
)

var errStaticPolicyStore = errors.New("policy_store.driver is static, edit the policies in the config file instead")

func newPolicyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Manage library policies in the SQL policy store",
	}

	cmd.AddCommand(newPolicySetCmd(c), newPolicyListCmd(c))

	return cmd
}

func (c *cli) openPolicyStore() (*policy.SQLStore, error) {
	if c.cfg.PolicyStore.Driver != config.PolicyStoreSQL {
		return nil, errStaticPolicyStore
	}

	return policy.OpenSQLStore(c.cfg.PolicyStore.SQLDriver, c.cfg.PolicyStore.DSN)
}

func newPolicySetCmd(c *cli) *cobra.Command {
	p := config.PolicyConfig{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or replace the policy of a library",
		RunE: func(cmd *cobra.Command, _ []string) error {
			libraryPolicy, err := p.ToPolicy()
			if err != nil {
				return err
			}

			store, err := c.openPolicyStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err = store.Migrate(cmd.Context()); err != nil {
				return err
			}

			if err = store.Save(cmd.Context(), libraryPolicy); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "policy of %s saved\n", libraryPolicy.LibraryID)

			return nil
		},
	}

	// the config is not loaded yet when flags are registered
	defaults := config.Default().DefaultPolicy

	cmd.Flags().StringVar(&p.LibraryID, "library", "", "Library id (required)")
	cmd.Flags().IntVar(&p.LoanDurationDays, "loan-days", defaults.LoanDurationDays, "Loan duration in days")
	cmd.Flags().StringVar(&p.FinePerDay, "fine", defaults.FinePerDay, "Fine per overdue day, e.g. 0.50")
	cmd.Flags().IntVar(&p.MaxBooksPerMember, "max-books", defaults.MaxBooksPerMember, "Maximum active loans per member")
	cmd.Flags().IntVar(&p.HoldWindowDays, "hold-days", defaults.HoldWindowDays, "Days a held copy waits for pickup")
	_ = cmd.MarkFlagRequired("library")

	return cmd
}

func newPolicyListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored library policies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.openPolicyStore()
			if err != nil {
				return err
			}
			defer store.Close()

			policies, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LIBRARY\tLOAN DAYS\tFINE/DAY\tMAX BOOKS\tHOLD DAYS")

			for _, p := range policies {
				fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\n",
					p.LibraryID, p.LoanDurationDays, p.FinePerDay, p.MaxBooksPerMember, p.HoldWindowDays)
			}

			return w.Flush()
		},
	}
}
