package ports

import "context"

// VersionProbe asks a runtime executable for its version.
//
//go:generate go run go.uber.org/mock/mockgen -source=probe.go -destination=mocks/mock_probe.go -package=mocks
type VersionProbe interface {
	// ProbeVersion runs the executable and returns the normalized major version
	// together with the raw version string it reported.
	ProbeVersion(ctx context.Context, executablePath string) (int, string, error)
}
