package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [runtime]",
		Short: "Check the critical files of one or all runtimes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var selector string
			if len(args) == 1 {
				selector = args[0]
			}

			results, err := c.app.Verify(cmd.Context(), selector)
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return p.json(results)
			}
			if len(results) == 0 {
				p.muted("No runtimes installed.")
				return nil
			}
			p.verification(results)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}
