package ports

import "context"

// Hasher computes content fingerprints used for integrity checks.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint returns the hex encoded digest of the file at path.
	Fingerprint(ctx context.Context, path string) (string, error)
}
