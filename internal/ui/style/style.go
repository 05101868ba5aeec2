// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/jman/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	White  = lipgloss.Color("#FFFFFF")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
)

// StatusIcon returns the icon shown next to a verification status.
func StatusIcon(s domain.VerificationStatus) string {
	switch s {
	case domain.StatusVerified:
		return Check
	case domain.StatusCorrupted, domain.StatusMissing:
		return Cross
	default:
		return Tilde
	}
}

// StatusColor returns the color used to render a verification status.
func StatusColor(s domain.VerificationStatus) lipgloss.Color {
	switch s {
	case domain.StatusVerified:
		return Green
	case domain.StatusCorrupted, domain.StatusMissing:
		return Red
	default:
		return Yellow
	}
}
