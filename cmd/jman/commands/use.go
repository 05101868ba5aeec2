package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/jman/internal/ui/style"
)

func (c *CLI) newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <runtime>",
		Short: "Make a runtime the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := c.app.Use(args[0])
			if err != nil {
				return err
			}
			newPrinter(cmd).line(style.Dot, style.Iris,
				fmt.Sprintf("Now using %s (%s)", info.ID, info.BuildLabel))
			return nil
		},
	}
}
