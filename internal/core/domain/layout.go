package domain

import (
	"os"
	"path/filepath"
)

const (
	// SchemaVersion is the only registry schema this build reads or writes.
	SchemaVersion = "1.0.0"

	// JmanDirName is the name of the per-user metadata directory.
	JmanDirName = ".jman"

	// RuntimesDirName is the default managed root below JmanDirName.
	RuntimesDirName = "runtimes"

	// RegistryFileName is the name of the registry file inside the managed root.
	RegistryFileName = "jdk-registry.json"

	// TempDirName is the scratch extraction area inside the managed root.
	TempDirName = "temp"

	// BackupDirName holds instance directories that are being replaced by an update.
	BackupDirName = "backup"

	// HistoryFileName is the default sqlite journal inside the managed root.
	HistoryFileName = "history.db"

	// ConfigFileName is the default config file inside JmanDirName.
	ConfigFileName = "config.yaml"

	// DefaultSearchDepth bounds the executable search inside an extracted archive.
	DefaultSearchDepth = 5

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultJmanPath returns ~/.jman, or .jman when the home directory is unknown.
func DefaultJmanPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return JmanDirName
	}
	return filepath.Join(home, JmanDirName)
}

// DefaultRootPath returns the default managed root.
// It joins ~/.jman and runtimes.
func DefaultRootPath() string {
	return filepath.Join(DefaultJmanPath(), RuntimesDirName)
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultJmanPath(), ConfigFileName)
}

// RegistryPath returns the registry file for a managed root.
func RegistryPath(root string) string {
	return filepath.Join(root, RegistryFileName)
}

// InstancePath returns the directory an instance is placed in.
func InstancePath(root, id string) string {
	return filepath.Join(root, id)
}

// TempPath returns a scratch directory for one workflow run.
func TempPath(root, token string) string {
	return filepath.Join(root, TempDirName, token)
}

// BackupPath returns where an instance is parked during an update.
func BackupPath(root, id string) string {
	return filepath.Join(root, BackupDirName, id)
}
