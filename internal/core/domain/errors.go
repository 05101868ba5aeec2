package domain

import "go.trai.ch/zerr"

var (
	// ErrAlreadyInstalling is returned when a mutating workflow is requested while another one holds the guard.
	ErrAlreadyInstalling = zerr.New("another install or update is already in progress")

	// ErrVersionConflict is returned when a runtime with the requested major version is already installed.
	ErrVersionConflict = zerr.New("a runtime with this major version is already installed")

	// ErrArchiveNotFound is returned when the source archive does not exist.
	ErrArchiveNotFound = zerr.New("archive not found")

	// ErrInstanceNotFound is returned when no installed runtime matches the requested id.
	ErrInstanceNotFound = zerr.New("runtime instance not found")

	// ErrInstanceLocked is returned when removing or updating a runtime that holds usage locks.
	ErrInstanceLocked = zerr.New("runtime instance is in use")

	// ErrLockNotFound is returned when releasing a usage lock that is not held.
	ErrLockNotFound = zerr.New("usage lock not found")

	// ErrBackupExists is returned when a stale backup directory blocks an update.
	ErrBackupExists = zerr.New("backup directory already exists")

	// ErrTargetExists is returned when the managed directory for a new instance is already occupied.
	ErrTargetExists = zerr.New("install directory already exists")

	// ErrInvalidMajorVersion is returned when the requested major version is not a positive integer.
	ErrInvalidMajorVersion = zerr.New("major version must be a positive integer")

	// ErrInstallFailed is returned when the install workflow fails and has been rolled back.
	ErrInstallFailed = zerr.New("failed to install runtime")

	// ErrUpdateFailed is returned when the update workflow fails and has been rolled back.
	ErrUpdateFailed = zerr.New("failed to install update")

	// ErrRemoveFailed is returned when removing an installed runtime fails.
	ErrRemoveFailed = zerr.New("failed to remove runtime")

	// ErrExtractFailed is returned when an archive cannot be extracted.
	ErrExtractFailed = zerr.New("failed to extract archive")

	// ErrUnsupportedFormat is returned when the archive extension is not recognized.
	ErrUnsupportedFormat = zerr.New("unsupported archive format")

	// ErrUnsafeArchivePath is returned when an archive entry would be written outside the destination.
	ErrUnsafeArchivePath = zerr.New("archive entry escapes destination directory")

	// ErrExecutableNotFound is returned when the runtime executable cannot be located in the extracted tree.
	ErrExecutableNotFound = zerr.New("runtime executable not found in archive")

	// ErrMoveFailed is returned when a directory cannot be moved into place.
	ErrMoveFailed = zerr.New("failed to move directory")

	// ErrProbeFailed is returned when the runtime executable cannot be invoked or its output parsed.
	ErrProbeFailed = zerr.New("failed to probe runtime version")

	// ErrVersionMismatch is returned when the probed major version differs from the requested one.
	ErrVersionMismatch = zerr.New("runtime version mismatch")

	// ErrFingerprintFailed is returned when a critical file cannot be fingerprinted.
	ErrFingerprintFailed = zerr.New("failed to compute file fingerprint")

	// ErrHealthCheckFailed is returned when a health check hits an I/O error.
	ErrHealthCheckFailed = zerr.New("failed to check runtime file health")

	// ErrNotLoaded is returned when the registry is saved before it was initialized or loaded.
	ErrNotLoaded = zerr.New("registry not loaded")

	// ErrRegistryNotFound is returned when the registry file does not exist.
	ErrRegistryNotFound = zerr.New("registry file not found")

	// ErrSchemaMismatch is returned when the registry file has an unexpected schema version.
	ErrSchemaMismatch = zerr.New("registry schema version mismatch")

	// ErrRegistryReadFailed is returned when the registry file cannot be read or decoded.
	ErrRegistryReadFailed = zerr.New("failed to read registry")

	// ErrRegistryWriteFailed is returned when the registry file cannot be written.
	ErrRegistryWriteFailed = zerr.New("failed to write registry")

	// ErrCatalogReadFailed is returned when a catalog file cannot be read or decoded.
	ErrCatalogReadFailed = zerr.New("failed to read catalog")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrHistoryFailed is returned when the operation journal cannot be opened or queried.
	ErrHistoryFailed = zerr.New("failed to access operation history")

	// ErrRuntimeExitFailed is returned when a runtime launched through exec exits with an error.
	ErrRuntimeExitFailed = zerr.New("runtime exited with an error")

	// ErrCatalogNotConfigured is returned when a command needs a catalog and none was given.
	ErrCatalogNotConfigured = zerr.New("no catalog configured")

	// ErrNoUpdateAvailable is returned when the catalog offers no newer build for an instance.
	ErrNoUpdateAvailable = zerr.New("no update available")

	// ErrWatchFailed is returned when the managed directory cannot be watched for changes.
	ErrWatchFailed = zerr.New("failed to watch runtime files")

	// ErrNoActiveRuntime is returned when no runtime was selected and none is designated as current.
	ErrNoActiveRuntime = zerr.New("no runtime selected and no active runtime set")
)
