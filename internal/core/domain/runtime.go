package domain

import (
	"slices"
	"time"
)

// VerificationStatus is the last computed integrity state of an instance.
type VerificationStatus string

const (
	// StatusVerified means every recorded critical file exists and matches its fingerprint.
	StatusVerified VerificationStatus = "verified"
	// StatusUnverified is the initial state of a record produced by a dry run.
	StatusUnverified VerificationStatus = "unverified"
	// StatusCorrupted means at least one recorded file no longer matches its fingerprint.
	StatusCorrupted VerificationStatus = "corrupted"
	// StatusMissing means at least one recorded file is absent.
	StatusMissing VerificationStatus = "missing"
)

// Registry is the persisted record of every runtime installed under one root.
type Registry struct {
	SchemaVersion    string     `json:"schemaVersion"`
	RootPath         string     `json:"rootPath"`
	ActiveInstanceID string     `json:"activeInstanceId,omitempty"`
	Instances        []Instance `json:"instances"`
	LastUpdated      time.Time  `json:"lastUpdated"`
}

// Instance is one installed runtime.
type Instance struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	BuildLabel         string             `json:"buildLabel"`
	MajorVersion       int                `json:"majorVersion"`
	OS                 string             `json:"os"`
	InstalledAt        time.Time          `json:"installedAt"`
	Checksums          []FileChecksum     `json:"checksums"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
}

// Clone returns a copy that shares no slices with i.
func (i Instance) Clone() Instance {
	i.Checksums = slices.Clone(i.Checksums)
	if i.Checksums == nil {
		i.Checksums = []FileChecksum{}
	}
	return i
}

// FileChecksum is the recorded fingerprint of one critical file, relative to the instance root.
type FileChecksum struct {
	Path         string    `json:"path"`
	Fingerprint  string    `json:"fingerprint"`
	LastVerified time.Time `json:"lastVerified"`
}

// UsageLock marks an instance as in use by a consumer. Locks are never persisted.
type UsageLock struct {
	ID         string    `json:"lockId"`
	AcquiredAt time.Time `json:"acquiredAt"`
	Purpose    string    `json:"purpose,omitempty"`
}

// VerificationResult is the outcome of one health check.
type VerificationResult struct {
	ID             string             `json:"id"`
	Status         VerificationStatus `json:"status"`
	MissingFiles   []string           `json:"missingFiles,omitempty"`
	CorruptedFiles []string           `json:"corruptedFiles,omitempty"`
}

// StatusFor derives the verification status from the files found missing or corrupted.
// Missing files take precedence over corrupted ones.
func StatusFor(missing, corrupted []string) VerificationStatus {
	switch {
	case len(missing) > 0:
		return StatusMissing
	case len(corrupted) > 0:
		return StatusCorrupted
	default:
		return StatusVerified
	}
}
