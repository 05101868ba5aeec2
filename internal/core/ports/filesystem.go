package ports

// FileSystem provides the tree operations the install workflows are built from.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Exists reports whether path exists.
	Exists(path string) (bool, error)

	// Move relocates a directory tree. The parent of dst is created if needed.
	Move(src, dst string) error

	// RemoveAll deletes a tree. A missing path is not an error.
	RemoveAll(path string) error

	// Remove deletes a single file. A missing path is not an error.
	Remove(path string) error

	// RemoveEmptyDir deletes dir only if it holds no entries. A missing or
	// non-empty dir is not an error.
	RemoveEmptyDir(dir string) error

	// NormalizeExtracted returns the single top-level directory of an extracted
	// archive, or dir itself when the archive has no single root.
	NormalizeExtracted(dir string) (string, error)

	// FindExecutable searches root breadth first, at most maxDepth levels deep,
	// for a regular file named name below root. It returns the runtime root,
	// the parent of the directory holding that file.
	FindExecutable(root, name string, maxDepth int) (string, error)
}
