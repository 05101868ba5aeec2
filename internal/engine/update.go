package engine

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/zerr"
)

// UpdateRequest replaces the build of an installed instance in place.
type UpdateRequest struct {
	InstanceID  string
	ArchivePath string
	// BuildLabel defaults to the archive name without its extension.
	BuildLabel string
}

// Update installs a new build for an existing instance. The current directory
// is moved aside to a backup first; on failure the backup is moved back, the
// registry is restored and the restored state is saved.
func (m *Manager) Update(ctx context.Context, req UpdateRequest) (*Entry, error) {
	start := m.now()
	label := req.BuildLabel
	if label == "" {
		label = domain.BuildLabelFromFilename(req.ArchivePath)
	}

	ctx, span := m.startWorkflow(ctx, domain.OpUpdate, req.InstanceID)
	defer span.End()

	reject := func(err error) (*Entry, error) {
		m.observe(ctx, event{op: domain.OpUpdate, id: req.InstanceID, label: label, outcome: domain.OutcomeRejected, start: start, err: err})
		return nil, err
	}

	if !m.acquire() {
		return reject(zerr.Wrap(domain.ErrAlreadyInstalling, "update"))
	}
	defer m.release()

	inst, ok := m.store.Instance(req.InstanceID)
	if !ok {
		return reject(zerr.With(zerr.Wrap(domain.ErrInstanceNotFound, "update"), "instance_id", req.InstanceID))
	}
	entry := m.entry(inst.ID)
	if entry.IsLocked() {
		locked := zerr.With(zerr.Wrap(domain.ErrInstanceLocked, "update"), "instance_id", inst.ID)
		return reject(zerr.With(locked, "locks", len(entry.Locks())))
	}
	if err := m.requireArchive(req.ArchivePath); err != nil {
		return reject(err)
	}

	root := m.store.Root()
	backup := domain.BackupPath(root, inst.ID)
	stale, err := m.fs.Exists(backup)
	if err != nil {
		return reject(zerr.With(zerr.Wrap(err, "failed to check backup"), "path", backup))
	}
	if stale {
		return reject(zerr.With(zerr.Wrap(domain.ErrBackupExists, "update"), "path", backup))
	}

	if m.dryRun {
		m.logger.Info(fmt.Sprintf("dry run: would update %s from %s to %s using %s",
			inst.ID, inst.BuildLabel, label, req.ArchivePath))
		if err := m.store.Save(); err != nil {
			return reject(err)
		}
		m.observe(ctx, event{op: domain.OpUpdate, id: inst.ID, label: label, outcome: domain.OutcomeDryRun, start: start})
		return entry, nil
	}

	snapshot := m.store.Snapshot()
	st := &staging{
		tempDir: domain.TempPath(root, "update-"+m.scratchToken(domain.OpUpdate, req.ArchivePath)),
		target:  domain.InstancePath(root, inst.ID),
	}
	backedUp := false

	err = func() error {
		if err := m.fs.Move(st.target, backup); err != nil {
			return atStep("backup", err)
		}
		backedUp = true

		checksums, err := m.stage(ctx, st, req.ArchivePath, inst.MajorVersion)
		if err != nil {
			return err
		}

		installedAt := m.now()
		if err := m.store.Update(inst.ID, func(rec *domain.Instance) {
			rec.BuildLabel = label
			rec.InstalledAt = installedAt
			rec.Checksums = checksums
			rec.VerificationStatus = domain.StatusVerified
		}); err != nil {
			return atStep("record", err)
		}
		if err := m.store.Save(); err != nil {
			return atStep("save", err)
		}
		return nil
	}()
	if err != nil {
		m.rollbackUpdate(st, backup, backedUp, snapshot)
		err = zerr.With(errors.Join(domain.ErrUpdateFailed, err), "instance_id", inst.ID)
		m.observe(ctx, event{op: domain.OpUpdate, id: inst.ID, label: label, outcome: domain.OutcomeFailed, start: start, err: err})
		return nil, err
	}

	if err := m.fs.RemoveAll(backup); err != nil {
		m.logger.Warn(fmt.Sprintf("could not remove backup %s: %v", backup, err))
	}
	m.cleanup(st.tempDir, req.ArchivePath)
	m.logger.Info(fmt.Sprintf("updated %s from %s to %s", inst.ID, inst.BuildLabel, label))
	m.observe(ctx, event{op: domain.OpUpdate, id: inst.ID, label: label, outcome: domain.OutcomeSuccess, start: start})
	return entry, nil
}

func (m *Manager) rollbackUpdate(st *staging, backup string, backedUp bool, snapshot domain.Registry) {
	if st.placed {
		if err := m.fs.RemoveAll(st.target); err != nil {
			m.logger.Error(zerr.Wrap(err, "rollback: failed to remove placed runtime"))
		}
	}
	if backedUp {
		if err := m.fs.Move(backup, st.target); err != nil {
			m.logger.Error(zerr.Wrap(err, "rollback: failed to restore backup"))
		}
	}
	if err := m.fs.RemoveAll(st.tempDir); err != nil {
		m.logger.Error(zerr.Wrap(err, "rollback: failed to remove temp directory"))
	}
	m.pruneScratch()
	m.store.Restore(snapshot)
	if err := m.store.Save(); err != nil {
		m.logger.Error(zerr.Wrap(err, "rollback: failed to save restored registry"))
	}
	m.metrics.RolledBack(domain.OpUpdate)
}
