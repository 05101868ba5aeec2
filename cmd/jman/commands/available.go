package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/jman/internal/core/domain"
)

func (c *CLI) newAvailableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "available",
		Short: "List catalog runtimes whose major version is not installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runtimes, err := c.app.Available()
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return p.json(runtimes)
			}
			p.available(runtimes, domain.CurrentOS())
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}
