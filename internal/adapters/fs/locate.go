package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/zerr"
)

// NormalizeExtracted returns the single top-level directory of an extracted
// archive. If dir holds anything else, dir itself is returned.
func (f *FileSystem) NormalizeExtracted(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read extracted directory"), "path", dir)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}

// FindExecutable searches root breadth first for a regular file called name.
// Files directly inside root are at depth 0; bin/java is at depth 1. The
// shallowest match wins and its grandparent directory is returned, so a match
// at depth 0 yields the parent of root.
func (f *FileSystem) FindExecutable(root, name string, maxDepth int) (string, error) {
	type level struct {
		dir   string
		depth int
	}

	queue := []level{{dir: root}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(cur.dir)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to read directory"), "path", cur.dir)
		}

		for _, e := range entries {
			if e.Name() == name && e.Type().IsRegular() {
				return filepath.Dir(cur.dir), nil
			}
		}
		if cur.depth >= maxDepth {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				queue = append(queue, level{dir: filepath.Join(cur.dir, e.Name()), depth: cur.depth + 1})
			}
		}
	}

	return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrExecutableNotFound, "search exhausted"), "name", name), "root", root)
}
