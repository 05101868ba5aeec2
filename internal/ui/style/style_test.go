package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/ui/style"
)

func TestStatusIconAndColor(t *testing.T) {
	tests := []struct {
		status domain.VerificationStatus
		icon   string
		color  string
	}{
		{domain.StatusVerified, style.Check, string(style.Green)},
		{domain.StatusCorrupted, style.Cross, string(style.Red)},
		{domain.StatusMissing, style.Cross, string(style.Red)},
		{domain.StatusUnverified, style.Tilde, string(style.Yellow)},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.icon, style.StatusIcon(tt.status))
			assert.Equal(t, tt.color, string(style.StatusColor(tt.status)))
		})
	}
}
