package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnvironment(t *testing.T) {
	home := filepath.Join("opt", "jman", "jdk-17-temurin")
	bin := filepath.Join(home, "bin")
	sep := string(os.PathListSeparator)

	tests := []struct {
		name     string
		sysEnv   []string
		home     string
		expected []string
	}{
		{
			name:     "inherits everything without a home",
			sysEnv:   []string{"USER=test", "PATH=/bin", "JAVA_HOME=/usr/lib/jvm/default"},
			expected: []string{"JAVA_HOME=/usr/lib/jvm/default", "PATH=/bin", "USER=test"},
		},
		{
			name:     "prepends bin and overrides JAVA_HOME",
			sysEnv:   []string{"USER=test", "PATH=/bin", "JAVA_HOME=/usr/lib/jvm/default"},
			home:     home,
			expected: []string{"JAVA_HOME=" + home, "PATH=" + bin + sep + "/bin", "USER=test"},
		},
		{
			name:     "no system PATH",
			sysEnv:   []string{"USER=test"},
			home:     home,
			expected: []string{"JAVA_HOME=" + home, "PATH=" + bin, "USER=test"},
		},
		{
			name:     "values containing equals signs",
			sysEnv:   []string{"JAVA_TOOL_OPTIONS=-Dfile.encoding=UTF-8", "malformed"},
			expected: []string{"JAVA_TOOL_OPTIONS=-Dfile.encoding=UTF-8"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveEnvironment(tt.sysEnv, tt.home))
		})
	}
}
