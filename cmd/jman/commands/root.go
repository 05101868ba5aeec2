// Package commands implements the CLI commands for jman.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/jman/internal/adapters/config"
	"go.trai.ch/jman/internal/app"
	"go.trai.ch/jman/internal/build"
	"go.trai.ch/jman/internal/core/domain"
)

// CLI represents the command line interface for jman.
type CLI struct {
	app     Application
	setup   SetupFunc
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Install(ctx context.Context, opts app.InstallOptions) (domain.InstallInfo, error)
	Update(ctx context.Context, opts app.UpdateOptions) (domain.InstallInfo, error)
	Remove(ctx context.Context, selector string) error
	List() app.Listing
	Verify(ctx context.Context, selector string) ([]domain.VerificationResult, error)
	Outdated() ([]domain.Update, error)
	Available() ([]domain.AvailableRuntime, error)
	Use(selector string) (domain.InstallInfo, error)
	Exec(ctx context.Context, selector string, args []string, opts app.ExecOptions) error
	History(ctx context.Context, limit int) ([]domain.Event, error)
	Watch(ctx context.Context, selector string, report func(domain.VerificationResult)) error
}

// SetupFunc builds the Application once the command line has been parsed.
type SetupFunc func(ctx context.Context, settings config.Settings) (Application, error)

// New creates a new CLI instance with the given app. A nil app is built
// lazily through the function passed to WithSetup.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "jman",
		Short:         "Install, verify and switch between local Java runtimes",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default $JMAN_CONFIG or ~/.jman/config.yaml)")
	flags.String("root", "", "Directory holding the managed runtimes")
	flags.Bool("dry-run", false, "Report what would change without touching disk")
	flags.Bool("json-logs", false, "Write logs as JSON")
	flags.String("log-file", "", "Also write JSON logs to a rotating file")
	flags.Bool("trace", false, "Log the duration of every workflow step")
	flags.String("metrics-file", "", "Write Prometheus metrics to this textfile on exit")
	flags.String("catalog", "", "Catalog of available runtimes (YAML or JSON)")
	flags.String("output", "auto", "Table layout: auto, table or plain")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.prepare

	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newUpdateCmd())
	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newVerifyCmd())
	rootCmd.AddCommand(c.newOutdatedCmd())
	rootCmd.AddCommand(c.newAvailableCmd())
	rootCmd.AddCommand(c.newUseCmd())
	rootCmd.AddCommand(c.newExecCmd())
	rootCmd.AddCommand(c.newHistoryCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// WithSetup sets the function that builds the Application from the resolved settings.
func (c *CLI) WithSetup(fn SetupFunc) *CLI {
	c.setup = fn
	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// prepare resolves the settings from flags, environment and config file and
// builds the Application before any command runs.
func (c *CLI) prepare(cmd *cobra.Command, _ []string) error {
	if c.app != nil || c.setup == nil || cmd.Annotations[skipSetup] != "" {
		return nil
	}

	configFile, _ := cmd.Flags().GetString("config")
	settings, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	a, err := c.setup(cmd.Context(), settings)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

// skipSetup marks commands that run without the Application.
const skipSetup = "jman.skip-setup"
