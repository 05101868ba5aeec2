// Package probe asks an installed runtime for its version.
package probe

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.VersionProbe = (*JavaProbe)(nil)

var versionPattern = regexp.MustCompile(`version "([^"]+)"`)

// JavaProbe implements ports.VersionProbe by running `<exe> -version`.
type JavaProbe struct {
	timeout time.Duration
}

// NewJavaProbe creates a probe. A zero timeout waits for the process indefinitely.
func NewJavaProbe(timeout time.Duration) *JavaProbe {
	return &JavaProbe{timeout: timeout}
}

// ProbeVersion runs the executable and parses the version it reports.
// The JVM prints its banner on stderr; stdout is checked as a fallback.
func (p *JavaProbe) ProbeVersion(ctx context.Context, executablePath string) (int, string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, executablePath, "-version") //nolint:gosec // Executable lives in the managed root
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		probeErr := zerr.Wrap(err, domain.ErrProbeFailed.Error())
		probeErr = zerr.With(probeErr, "executable", executablePath)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, "", zerr.With(probeErr, "stderr", strings.TrimSpace(stderr.String()))
		}
		return 0, "", probeErr
	}

	raw, ok := ParseVersion(stderr.String())
	if !ok {
		raw, ok = ParseVersion(stdout.String())
	}
	if !ok {
		return 0, "", zerr.With(zerr.Wrap(domain.ErrProbeFailed, "no version string in output"), "executable", executablePath)
	}

	major, ok := domain.MajorVersion(raw)
	if !ok {
		return 0, raw, zerr.With(zerr.Wrap(domain.ErrProbeFailed, "unparsable version"), "version", raw)
	}
	return major, raw, nil
}

// ParseVersion extracts the quoted version from `java -version` output.
func ParseVersion(output string) (string, bool) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return m[1], true
}
