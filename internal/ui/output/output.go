// Package output provides utilities for creating termenv.Output with consistent
// color profile and TTY handling across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorProfile returns the color profile for the current environment.
// NO_COLOR forces Ascii; otherwise the terminal's capabilities are detected.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a new termenv.Output using ColorProfile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return NewWithProfile(w, ColorProfile, opts...)
}

// NewWithProfile creates a new termenv.Output with a custom profile selector.
func NewWithProfile(w io.Writer, profileFn func() termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profileFn()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// Mode selects how command results are laid out.
type Mode int

const (
	// ModeAuto picks a mode from the environment.
	ModeAuto Mode = iota
	// ModeTable draws bordered tables for an interactive terminal.
	ModeTable
	// ModePlain prints borderless columns for pipes, files and CI logs.
	ModePlain
)

// DetectMode returns ModePlain when w is not a terminal or CI is set.
func DetectMode(w io.Writer) Mode {
	ci := os.Getenv("CI")
	if ci == "true" || ci == "1" {
		return ModePlain
	}

	f, ok := w.(interface{ Fd() uintptr })
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // Fd fits in int on supported platforms
		return ModePlain
	}
	return ModeTable
}

// ResolveMode applies the --output flag to the detected mode.
// userFlag should be one of: "auto", "table", "plain", or empty.
func ResolveMode(detected Mode, userFlag string) Mode {
	switch userFlag {
	case "table":
		return ModeTable
	case "plain":
		return ModePlain
	default:
		return detected
	}
}
