package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/jman/internal/app"
	"go.trai.ch/jman/internal/ui/style"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <archive>",
		Short: "Install a runtime from a local archive",
		Long: "Install extracts a .zip, .tar.gz, .tgz or .tar runtime distribution into the managed root,\n" +
			"checks that it reports the requested major version and records its critical file fingerprints.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			major, _ := cmd.Flags().GetInt("major")
			name, _ := cmd.Flags().GetString("name")
			use, _ := cmd.Flags().GetBool("use")

			info, err := c.app.Install(cmd.Context(), app.InstallOptions{
				Archive: args[0],
				Major:   major,
				Name:    name,
				Use:     use,
			})
			if err != nil {
				return err
			}

			newPrinter(cmd).line(style.Check, style.Green,
				fmt.Sprintf("Installed %s (%s) as %q", info.ID, info.BuildLabel, info.Name))
			return nil
		},
	}
	cmd.Flags().IntP("major", "m", 0, "Major version the archive contains")
	cmd.Flags().StringP("name", "n", "", "Display name (default \"Java <major>\")")
	cmd.Flags().Bool("use", false, "Make the new runtime the active one")
	_ = cmd.MarkFlagRequired("major")
	return cmd
}
