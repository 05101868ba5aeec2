package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/jman/internal/app"
	"go.trai.ch/zerr"
)

func (c *CLI) newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec [runtime] -- [java args...]",
		Short: "Run java from a runtime while holding it in use",
		Long: "Exec runs the runtime's java executable with JAVA_HOME set to the runtime.\n" +
			"The runtime cannot be removed or updated while the process runs.\n" +
			"Without a runtime argument the active runtime is used.",
		Example: "  jman exec 17 -- -version\n  jman exec -- -jar app.jar",
		Args: func(cmd *cobra.Command, _ []string) error {
			if dash := cmd.ArgsLenAtDash(); dash > 1 {
				return zerr.With(zerr.New("exec takes at most one runtime before --"), "got", dash)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			selector, javaArgs := splitExecArgs(args, cmd.ArgsLenAtDash())
			return c.app.Exec(cmd.Context(), selector, javaArgs, app.ExecOptions{
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})
		},
	}
}

// splitExecArgs separates the runtime selector from the arguments for java.
// Everything after "--" goes to java; before it at most one selector is expected.
func splitExecArgs(args []string, dash int) (string, []string) {
	if dash < 0 {
		if len(args) == 0 {
			return "", nil
		}
		return args[0], args[1:]
	}
	var selector string
	if dash > 0 {
		selector = args[0]
	}
	return selector, args[dash:]
}
