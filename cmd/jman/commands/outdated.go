package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newOutdatedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outdated",
		Short: "List runtimes for which the catalog offers another build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			updates, err := c.app.Outdated()
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return p.json(updates)
			}
			p.updates(updates)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}
