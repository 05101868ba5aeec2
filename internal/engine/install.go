package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/zerr"
)

// AddRequest describes a runtime to install from a local archive.
type AddRequest struct {
	ArchivePath  string
	MajorVersion int
	// Name defaults to "Java <major>".
	Name string
}

// staging tracks what a workflow has placed on disk so rollback only undoes its own work.
type staging struct {
	tempDir string
	target  string
	placed  bool
}

// Add installs a runtime. Preconditions are checked before anything is
// touched. Any failure after extraction starts is rolled back: the placed
// directory and the temp directory are removed and the registry is restored.
func (m *Manager) Add(ctx context.Context, req AddRequest) (*Entry, error) {
	start := m.now()
	label := domain.BuildLabelFromFilename(req.ArchivePath)
	id := domain.InstanceID(req.MajorVersion, label)

	ctx, span := m.startWorkflow(ctx, domain.OpInstall, id)
	defer span.End()

	reject := func(err error) (*Entry, error) {
		m.observe(ctx, event{op: domain.OpInstall, id: id, label: label, outcome: domain.OutcomeRejected, start: start, err: err})
		return nil, err
	}

	if req.MajorVersion <= 0 {
		return reject(zerr.With(zerr.Wrap(domain.ErrInvalidMajorVersion, "install"), "major", req.MajorVersion))
	}
	if !m.acquire() {
		return reject(zerr.Wrap(domain.ErrAlreadyInstalling, "install"))
	}
	defer m.release()

	if existing, ok := m.store.ByMajor(req.MajorVersion); ok {
		conflict := zerr.Wrap(domain.ErrVersionConflict, fmt.Sprintf("cannot install Java %d", req.MajorVersion))
		return reject(zerr.With(conflict, "installed", existing.ID))
	}
	if err := m.requireArchive(req.ArchivePath); err != nil {
		return reject(err)
	}

	name := req.Name
	if name == "" {
		name = domain.DefaultName(req.MajorVersion)
	}

	if m.dryRun {
		m.logger.Info(fmt.Sprintf("dry run: would install %s (%s) from %s into %s",
			id, label, req.ArchivePath, domain.InstancePath(m.store.Root(), id)))
		m.observe(ctx, event{op: domain.OpInstall, id: id, label: label, outcome: domain.OutcomeDryRun, start: start})
		return newSyntheticEntry(domain.Instance{
			ID:                 id,
			Name:               name,
			BuildLabel:         label,
			MajorVersion:       req.MajorVersion,
			OS:                 m.os,
			InstalledAt:        m.now(),
			VerificationStatus: domain.StatusUnverified,
		}, m.entryDeps()), nil
	}

	snapshot := m.store.Snapshot()
	st := &staging{
		tempDir: domain.TempPath(m.store.Root(), "install-"+m.scratchToken(domain.OpInstall, req.ArchivePath)),
		target:  domain.InstancePath(m.store.Root(), id),
	}

	err := m.install(ctx, st, req.ArchivePath, domain.Instance{
		ID:           id,
		Name:         name,
		BuildLabel:   label,
		MajorVersion: req.MajorVersion,
		OS:           m.os,
	})
	if err != nil {
		m.rollbackInstall(st, snapshot)
		err = zerr.With(errors.Join(domain.ErrInstallFailed, err), "instance_id", id)
		m.observe(ctx, event{op: domain.OpInstall, id: id, label: label, outcome: domain.OutcomeFailed, start: start, err: err})
		return nil, err
	}

	m.cleanup(st.tempDir, req.ArchivePath)
	m.logger.Info(fmt.Sprintf("installed %s (%s) at %s", id, label, st.target))
	m.observe(ctx, event{op: domain.OpInstall, id: id, label: label, outcome: domain.OutcomeSuccess, start: start})
	return m.entry(id), nil
}

// install places the runtime at st.target and records it.
func (m *Manager) install(ctx context.Context, st *staging, archive string, rec domain.Instance) error {
	checksums, err := m.stage(ctx, st, archive, rec.MajorVersion)
	if err != nil {
		return err
	}

	rec.InstalledAt = m.now()
	rec.Checksums = checksums
	rec.VerificationStatus = domain.StatusVerified
	if err := m.store.Put(rec); err != nil {
		return atStep("record", err)
	}
	if err := m.store.Save(); err != nil {
		return atStep("save", err)
	}
	return nil
}

// stage extracts an archive, locates the runtime root inside it, moves it to
// st.target, checks its major version and fingerprints its critical files.
func (m *Manager) stage(ctx context.Context, st *staging, archive string, major int) ([]domain.FileChecksum, error) {
	extractCtx, endExtract := m.step(ctx, "extract")
	err := m.archiver.Extract(extractCtx, archive, st.tempDir)
	endExtract(err)
	if err != nil {
		return nil, atStep("extract", err)
	}

	top, err := m.fs.NormalizeExtracted(st.tempDir)
	if err != nil {
		return nil, atStep("locate", err)
	}
	runtimeRoot, err := m.fs.FindExecutable(top, domain.ExecutableName(m.os), m.searchDepth)
	if err != nil {
		return nil, atStep("locate", err)
	}
	if !within(st.tempDir, runtimeRoot) {
		outside := zerr.With(zerr.Wrap(domain.ErrExecutableNotFound, "executable has no bin directory"), "path", runtimeRoot)
		return nil, atStep("locate", outside)
	}

	exists, err := m.fs.Exists(st.target)
	if err != nil {
		return nil, atStep("place", err)
	}
	if exists {
		taken := zerr.With(zerr.Wrap(domain.ErrTargetExists, "refusing to overwrite"), "path", st.target)
		return nil, atStep("place", taken)
	}
	if err := m.fs.Move(runtimeRoot, st.target); err != nil {
		return nil, atStep("place", err)
	}
	st.placed = true

	exe := filepath.Join(st.target, "bin", domain.ExecutableName(m.os))
	probeCtx, endProbe := m.step(ctx, "probe")
	found, raw, err := m.probe.ProbeVersion(probeCtx, exe)
	endProbe(err)
	if err != nil {
		return nil, atStep("probe", err)
	}
	if found != major {
		mismatch := zerr.Wrap(domain.ErrVersionMismatch, fmt.Sprintf("expected Java %d, archive contains Java %d", major, found))
		return nil, zerr.With(zerr.With(mismatch, "reported", raw), "step", "probe")
	}

	fpCtx, endFingerprint := m.step(ctx, "fingerprint")
	checksums, err := m.fingerprint(fpCtx, st.target)
	endFingerprint(err)
	if err != nil {
		return nil, atStep("fingerprint", err)
	}
	return checksums, nil
}

// fingerprint hashes the critical files present under root.
func (m *Manager) fingerprint(ctx context.Context, root string) ([]domain.FileChecksum, error) {
	files := domain.CriticalFiles(m.os)
	checksums := make([]domain.FileChecksum, 0, len(files))

	for _, rel := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		ok, err := m.fs.Exists(full)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		fp, err := m.hasher.Fingerprint(ctx, full)
		if err != nil {
			return nil, err
		}
		checksums = append(checksums, domain.FileChecksum{Path: rel, Fingerprint: fp, LastVerified: m.now()})
	}
	return checksums, nil
}

func (m *Manager) rollbackInstall(st *staging, snapshot domain.Registry) {
	if st.placed {
		if err := m.fs.RemoveAll(st.target); err != nil {
			m.logger.Error(zerr.Wrap(err, "rollback: failed to remove placed runtime"))
		}
	}
	if err := m.fs.RemoveAll(st.tempDir); err != nil {
		m.logger.Error(zerr.Wrap(err, "rollback: failed to remove temp directory"))
	}
	m.pruneScratch()
	m.store.Restore(snapshot)
	m.metrics.RolledBack(domain.OpInstall)
}

// pruneScratch removes the temp and backup areas once they are empty.
func (m *Manager) pruneScratch() {
	for _, name := range []string{domain.TempDirName, domain.BackupDirName} {
		dir := filepath.Join(m.store.Root(), name)
		if err := m.fs.RemoveEmptyDir(dir); err != nil {
			m.logger.Warn(fmt.Sprintf("could not remove %s: %v", dir, err))
		}
	}
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// atStep tags err with the workflow step it came from.
func atStep(step string, err error) error {
	return zerr.With(zerr.Wrap(err, step), "step", step)
}

// requireArchive fails with domain.ErrArchiveNotFound unless path exists.
func (m *Manager) requireArchive(path string) error {
	ok, err := m.fs.Exists(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to check archive"), "path", path)
	}
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrArchiveNotFound, "missing archive"), "path", path)
	}
	return nil
}

// cleanup removes the temp directory and the consumed archive after success.
func (m *Manager) cleanup(tempDir, archive string) {
	if err := m.fs.RemoveAll(tempDir); err != nil {
		m.logger.Warn(fmt.Sprintf("could not remove temp directory %s: %v", tempDir, err))
	}
	if err := m.fs.Remove(archive); err != nil {
		m.logger.Warn(fmt.Sprintf("could not delete archive %s: %v", archive, err))
	}
	m.pruneScratch()
}

func (m *Manager) entryDeps() entryDeps {
	return entryDeps{
		root:   m.store.Root(),
		store:  m.store,
		hasher: m.hasher,
		logger: m.logger,
		update: m.Update,
		now:    m.now,
	}
}
