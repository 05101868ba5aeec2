package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/jman/internal/ui/style"
)

func (c *CLI) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <runtime>",
		Aliases: []string{"rm", "uninstall"},
		Short:   "Remove an installed runtime",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			newPrinter(cmd).line(style.Check, style.Green, "Removed "+args[0])
			return nil
		},
	}
}
