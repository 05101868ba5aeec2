package engine

import (
	"context"
	"errors"
	iofs "io/fs"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/zerr"
)

// updateRunner runs the update workflow for an instance.
type updateRunner func(ctx context.Context, req UpdateRequest) (*Entry, error)

type entryDeps struct {
	root   string
	store  ports.RegistryStore
	hasher ports.Hasher
	logger ports.Logger
	update updateRunner
	now    func() time.Time
}

// Entry is a handle bound to one registry id. It reads the record from the
// store on every access and writes health results back by id. Usage locks
// live only in memory.
type Entry struct {
	id   string
	deps entryDeps

	// synthetic is set for records produced by a dry run; they are never stored.
	synthetic *domain.Instance

	mu    sync.Mutex
	locks map[string]domain.UsageLock
}

func newEntry(id string, deps entryDeps) *Entry {
	return &Entry{
		id:    id,
		deps:  deps,
		locks: make(map[string]domain.UsageLock),
	}
}

func newSyntheticEntry(inst domain.Instance, deps entryDeps) *Entry {
	e := newEntry(inst.ID, deps)
	rec := inst.Clone()
	e.synthetic = &rec
	return e
}

// UseRuntime registers a usage lock and returns its id. Locks count
// references; any number may be held at once.
func (e *Entry) UseRuntime(purpose string) string {
	lock := domain.UsageLock{
		ID:         uuid.NewString(),
		AcquiredAt: e.deps.now(),
		Purpose:    purpose,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.locks[lock.ID] = lock
	return lock.ID
}

// UnUseRuntime releases a usage lock.
func (e *Entry) UnUseRuntime(lockID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.locks[lockID]; !ok {
		return zerr.With(zerr.Wrap(domain.ErrLockNotFound, "release"), "lock_id", lockID)
	}
	delete(e.locks, lockID)
	return nil
}

// IsLocked reports whether any usage lock is held.
func (e *Entry) IsLocked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.locks) > 0
}

// Locks returns the held usage locks, oldest first.
func (e *Entry) Locks() []domain.UsageLock {
	e.mu.Lock()
	out := make([]domain.UsageLock, 0, len(e.locks))
	for _, l := range e.locks {
		out = append(out, l)
	}
	e.mu.Unlock()

	slices.SortFunc(out, func(a, b domain.UsageLock) int {
		if c := a.AcquiredAt.Compare(b.AcquiredAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// CheckFileHealth recomputes the fingerprint of every recorded critical file.
// A missing file yields StatusMissing, a changed one StatusCorrupted. The
// status and lastVerified times are written back to the store; saving is up
// to the caller. An I/O error other than a missing file aborts the check: the
// timestamps gathered so far are written back and the status is kept.
func (e *Entry) CheckFileHealth(ctx context.Context) (domain.VerificationResult, error) {
	if e.synthetic != nil {
		return domain.VerificationResult{ID: e.id, Status: e.synthetic.VerificationStatus}, nil
	}

	inst, ok := e.deps.store.Instance(e.id)
	if !ok {
		return domain.VerificationResult{}, zerr.With(zerr.Wrap(domain.ErrInstanceNotFound, "health check"), "instance_id", e.id)
	}

	base := e.Path()
	verified := make(map[string]time.Time, len(inst.Checksums))
	var missing, corrupted []string
	var checkErr error

	for _, c := range inst.Checksums {
		fp, err := e.deps.hasher.Fingerprint(ctx, filepath.Join(base, filepath.FromSlash(c.Path)))
		switch {
		case err == nil:
			if fp != c.Fingerprint {
				corrupted = append(corrupted, c.Path)
			}
		case errors.Is(err, iofs.ErrNotExist):
			missing = append(missing, c.Path)
		default:
			checkErr = zerr.With(errors.Join(domain.ErrHealthCheckFailed, err), "instance_id", e.id)
		}
		if checkErr != nil {
			break
		}
		verified[c.Path] = e.deps.now()
	}

	status := domain.StatusFor(missing, corrupted)
	writeErr := e.deps.store.Update(e.id, func(rec *domain.Instance) {
		for i := range rec.Checksums {
			if t, ok := verified[rec.Checksums[i].Path]; ok {
				rec.Checksums[i].LastVerified = t
			}
		}
		if checkErr == nil {
			rec.VerificationStatus = status
		}
	})

	if checkErr != nil {
		return domain.VerificationResult{}, checkErr
	}
	if writeErr != nil {
		return domain.VerificationResult{}, writeErr
	}

	return domain.VerificationResult{
		ID:             e.id,
		Status:         status,
		MissingFiles:   missing,
		CorruptedFiles: corrupted,
	}, nil
}

// CheckUpdate compares the instance with a catalog. It returns a handle bound
// to the newer build when the catalog offers a different one for os.
func (e *Entry) CheckUpdate(catalog []domain.AvailableRuntime, os string) (*UpdateHandle, bool) {
	inst, ok := e.Record()
	if !ok {
		return nil, false
	}
	u, ok := domain.FindUpdate(inst, catalog, os)
	if !ok {
		return nil, false
	}
	return &UpdateHandle{update: u, run: e.deps.update}, true
}

// Record returns a copy of the instance record.
func (e *Entry) Record() (domain.Instance, bool) {
	if e.synthetic != nil {
		return e.synthetic.Clone(), true
	}
	return e.deps.store.Instance(e.id)
}

func (e *Entry) record() domain.Instance {
	inst, _ := e.Record()
	return inst
}

// ID returns the instance id.
func (e *Entry) ID() string { return e.id }

// Name returns the display name.
func (e *Entry) Name() string { return e.record().Name }

// BuildLabel returns the label of the installed build.
func (e *Entry) BuildLabel() string { return e.record().BuildLabel }

// MajorVersion returns the major version.
func (e *Entry) MajorVersion() int { return e.record().MajorVersion }

// OS returns the platform the instance was installed for.
func (e *Entry) OS() string { return e.record().OS }

// InstalledAt returns when the current build was installed.
func (e *Entry) InstalledAt() time.Time { return e.record().InstalledAt }

// Status returns the last computed verification status.
func (e *Entry) Status() domain.VerificationStatus { return e.record().VerificationStatus }

// Checksums returns the recorded critical file fingerprints.
func (e *Entry) Checksums() []domain.FileChecksum { return e.record().Checksums }

// Path returns the instance directory.
func (e *Entry) Path() string {
	return domain.InstancePath(e.deps.root, e.id)
}

// Executable returns the path of the runtime's main executable.
func (e *Entry) Executable() string {
	os := e.OS()
	if os == "" {
		os = domain.CurrentOS()
	}
	return filepath.Join(e.Path(), "bin", domain.ExecutableName(os))
}

// UpdateHandle is a pending update for one instance, produced by CheckUpdate.
type UpdateHandle struct {
	update domain.Update
	run    updateRunner
}

// Update describes the available build.
func (h *UpdateHandle) Update() domain.Update { return h.update }

// InstanceID returns the id of the instance to update.
func (h *UpdateHandle) InstanceID() string { return h.update.InstanceID }

// BuildLabel returns the label of the available build.
func (h *UpdateHandle) BuildLabel() string { return h.update.AvailableBuildLabel }

// DownloadURL returns where the available build can be fetched from.
func (h *UpdateHandle) DownloadURL() string { return h.update.DownloadURL }

// Install runs the update workflow with an archive of the available build.
func (h *UpdateHandle) Install(ctx context.Context, archivePath string) (*Entry, error) {
	return h.run(ctx, UpdateRequest{
		InstanceID:  h.update.InstanceID,
		ArchivePath: archivePath,
		BuildLabel:  h.update.AvailableBuildLabel,
	})
}
