package commands

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/ui/style"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [runtime]",
		Short: "Re-verify runtimes whenever their files change",
		Long: "Watch monitors the managed directory and re-runs the health check of a runtime\n" +
			"as soon as one of its files is written, created, removed or renamed.\n" +
			"It runs until interrupted.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var selector string
			if len(args) == 1 {
				selector = args[0]
			}

			p := newPrinter(cmd)
			asJSON, _ := cmd.Flags().GetBool("json")
			enc := json.NewEncoder(cmd.OutOrStdout())

			return c.app.Watch(cmd.Context(), selector, func(res domain.VerificationResult) {
				if asJSON {
					_ = enc.Encode(res)
					return
				}
				p.result(res)
			})
		},
	}
	cmd.Flags().Bool("json", false, "Print one JSON object per check")
	return cmd
}

// result prints a single health check as one line.
func (p *printer) result(res domain.VerificationResult) {
	msg := res.ID + " " + string(res.Status)
	if len(res.MissingFiles) > 0 {
		msg += " missing: " + strings.Join(res.MissingFiles, ", ")
	}
	if len(res.CorruptedFiles) > 0 {
		msg += " corrupted: " + strings.Join(res.CorruptedFiles, ", ")
	}
	p.line(style.StatusIcon(res.Status), style.StatusColor(res.Status), msg)
}
