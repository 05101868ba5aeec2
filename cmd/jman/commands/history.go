package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent install, update, remove and verify operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			events, err := c.app.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return p.json(events)
			}
			p.history(events)
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of entries, newest first")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}
