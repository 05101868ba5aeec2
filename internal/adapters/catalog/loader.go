// Package catalog reads catalogs of downloadable runtimes from local files.
package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.CatalogLoader = (*Loader)(nil)

// Loader reads a catalog file. ".json" files are decoded as JSON, anything
// else as YAML. The document is either a list of runtimes or an object with
// a "runtimes" list.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

type document struct {
	Runtimes []domain.AvailableRuntime `json:"runtimes" yaml:"runtimes"`
}

// Load implements ports.CatalogLoader.
func (l *Loader) Load(path string) ([]domain.AvailableRuntime, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCatalogReadFailed.Error()), "path", path)
	}

	var runtimes []domain.AvailableRuntime
	if strings.EqualFold(filepath.Ext(path), ".json") {
		runtimes, err = decodeJSON(data)
	} else {
		runtimes, err = decodeYAML(data)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCatalogReadFailed.Error()), "path", path)
	}

	return runtimes, nil
}

func decodeJSON(data []byte) ([]domain.AvailableRuntime, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		return doc.Runtimes, nil
	}

	var list []domain.AvailableRuntime
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func decodeYAML(data []byte) ([]domain.AvailableRuntime, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	if node.Content[0].Kind == yaml.MappingNode {
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Runtimes, nil
	}

	var list []domain.AvailableRuntime
	if err := node.Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}
