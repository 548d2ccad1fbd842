package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/config"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or show the configuration",
	}

	cmd.AddCommand(newConfigInitCmd(c), newConfigShowCmd(c))

	return cmd
}

func newConfigInitCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.Path(c.configPath)

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists, use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			if err := config.Save(config.Default(), path); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "config written to %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func newConfigShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration, file and environment merged",
		RunE: func(_ *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(c.out)
			enc.SetIndent(2)

			if err := enc.Encode(c.cfg); err != nil {
				return err
			}

			return enc.Close()
		},
	}
}
