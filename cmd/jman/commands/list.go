package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed runtimes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listing := c.app.List()
			p := newPrinter(cmd)
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return p.json(listing)
			}
			p.listing(listing)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}
