package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/jman/internal/app"
	"go.trai.ch/jman/internal/ui/style"
)

func (c *CLI) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [runtime] <archive>",
		Short: "Replace the build of an installed runtime",
		Long: "Update installs a new build over an existing runtime of the same major version.\n" +
			"The runtime is selected by id, major version or build label and defaults to the active one.\n" +
			"The previous build is restored if anything fails.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, _ := cmd.Flags().GetString("label")
			fromCatalog, _ := cmd.Flags().GetBool("from-catalog")

			opts := app.UpdateOptions{
				Archive:     args[len(args)-1],
				Label:       label,
				FromCatalog: fromCatalog,
			}
			if len(args) == 2 {
				opts.Selector = args[0]
			}

			info, err := c.app.Update(cmd.Context(), opts)
			if err != nil {
				return err
			}

			newPrinter(cmd).line(style.Check, style.Green,
				fmt.Sprintf("Updated %s to %s", info.ID, info.BuildLabel))
			return nil
		},
	}
	cmd.Flags().StringP("label", "l", "", "Build label to record (default: archive file name)")
	cmd.Flags().Bool("from-catalog", false, "Require a newer build in the catalog and record its label")
	cmd.MarkFlagsMutuallyExclusive("label", "from-catalog")
	return cmd
}
