package ports

import "go.trai.ch/jman/internal/core/domain"

// CatalogLoader reads an externally supplied list of available runtimes.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type CatalogLoader interface {
	// Load reads the catalog at path.
	Load(path string) ([]domain.AvailableRuntime, error)
}
