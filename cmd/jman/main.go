// Package main is the entry point for the jman runtime manager.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/jman/cmd/jman/commands"
	"go.trai.ch/jman/internal/adapters/config"
	"go.trai.ch/jman/internal/app"
	"go.trai.ch/jman/internal/core/domain"
	_ "go.trai.ch/jman/internal/wiring"
)

// ComponentProvider is a function that returns the application components
// for the settings resolved from the command line.
type ComponentProvider func(context.Context, config.Settings) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, provideComponents))
}

func provideComponents(ctx context.Context, settings config.Settings) (*app.Components, func(), error) {
	c, _, err := graft.ExecuteFor[*app.Components](ctx, graft.PatchValue(settings))
	if err != nil {
		return nil, func() {}, err
	}
	return c, func() {
		if err := c.Close(); err != nil {
			c.Logger.Error(err)
		}
	}, nil
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Interface - CLI, components are built once flags are parsed
	var components *app.Components
	cleanup := func() {}
	defer func() { cleanup() }()
	cli := commands.New(nil).WithSetup(func(ctx context.Context, settings config.Settings) (commands.Application, error) {
		c, done, err := provider(ctx, settings)
		if err != nil {
			return nil, err
		}
		components, cleanup = c, done
		return c.App, nil
	})
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	// 2. Execution
	err := cli.Execute(ctx)
	if err == nil {
		return 0
	}

	// The runtime reported its own failure; pass its exit code through.
	var exit interface{ ExitCode() int }
	if errors.Is(err, domain.ErrRuntimeExitFailed) && errors.As(err, &exit) && exit.ExitCode() > 0 {
		return exit.ExitCode()
	}

	if components == nil {
		// Logger is not available if initialization failed or never ran
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	components.Logger.Error(err)
	return 1
}
