// Package shell runs installed runtimes as child processes.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec. The child inherits the
// caller's environment with JAVA_HOME and PATH pointed at the instance.
type Executor struct {
	environ func() []string
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{environ: os.Environ}
}

// WithEnviron replaces the source of the inherited environment.
func (e *Executor) WithEnviron(environ func() []string) *Executor {
	e.environ = environ
	return e
}

// Execute runs the command and waits for it to complete.
func (e *Executor) Execute(
	ctx context.Context,
	cmd *domain.Command,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	c := exec.CommandContext(ctx, cmd.Executable, cmd.Args...) //nolint:gosec // Executable lives in the managed root
	c.Dir = cmd.Dir
	c.Env = resolveEnvironment(e.environ(), cmd.Home)
	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = stderr

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return zerr.With(errors.Join(domain.ErrRuntimeExitFailed, exitErr), "exit_code", exitErr.ExitCode())
		}
		return zerr.With(zerr.Wrap(err, "failed to start runtime"), "executable", cmd.Executable)
	}
	return nil
}

// resolveEnvironment sets JAVA_HOME to home and puts its bin directory first
// on PATH. Every other variable is inherited unchanged.
func resolveEnvironment(sysEnv []string, home string) []string {
	envMap := make(map[string]string, len(sysEnv)+1)
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	if home != "" {
		envMap["JAVA_HOME"] = home
		bin := filepath.Join(home, "bin")
		if sysPath := envMap["PATH"]; sysPath != "" {
			envMap["PATH"] = bin + string(os.PathListSeparator) + sysPath
		} else {
			envMap["PATH"] = bin
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}
