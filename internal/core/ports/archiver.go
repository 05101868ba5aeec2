package ports

import "context"

// Archiver unpacks runtime distributions.
//
//go:generate go run go.uber.org/mock/mockgen -source=archiver.go -destination=mocks/mock_archiver.go -package=mocks
type Archiver interface {
	// Extract unpacks archivePath into destDir, creating destDir if needed.
	// The format is detected from the file extension; unknown extensions fail
	// with domain.ErrUnsupportedFormat.
	Extract(ctx context.Context, archivePath, destDir string) error
}
