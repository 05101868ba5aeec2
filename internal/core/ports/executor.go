package ports

import (
	"context"
	"io"

	"go.trai.ch/jman/internal/core/domain"
)

// Executor runs runtime executables as child processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd with the given standard streams and waits for it.
	// A non-zero exit is reported as an error wrapping domain.ErrRuntimeExitFailed
	// whose chain exposes ExitCode() int.
	Execute(ctx context.Context, cmd *domain.Command, stdin io.Reader, stdout, stderr io.Writer) error
}
