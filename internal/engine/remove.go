package engine

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/zerr"
)

// Remove deletes an instance's record and directory. It is refused while
// the instance holds usage locks. The record is removed and saved first, so a
// failed directory removal leaves an orphan directory rather than a dangling record.
func (m *Manager) Remove(ctx context.Context, id string) error {
	ctx, span := m.startWorkflow(ctx, domain.OpRemove, id)
	defer span.End()

	start := m.now()

	reject := func(err error) error {
		m.observe(ctx, event{op: domain.OpRemove, id: id, outcome: domain.OutcomeRejected, start: start, err: err})
		return err
	}

	if !m.acquire() {
		return reject(zerr.Wrap(domain.ErrAlreadyInstalling, "remove"))
	}
	defer m.release()

	inst, ok := m.store.Instance(id)
	if !ok {
		return reject(zerr.With(zerr.Wrap(domain.ErrInstanceNotFound, "remove"), "instance_id", id))
	}
	if m.entry(id).IsLocked() {
		return reject(zerr.With(zerr.Wrap(domain.ErrInstanceLocked, "remove"), "instance_id", id))
	}

	if m.dryRun {
		m.logger.Info(fmt.Sprintf("dry run: would remove %s (%s) at %s", id, inst.BuildLabel, domain.InstancePath(m.store.Root(), id)))
		m.observe(ctx, event{op: domain.OpRemove, id: id, label: inst.BuildLabel, outcome: domain.OutcomeDryRun, start: start})
		return nil
	}

	fail := func(err error) error {
		err = zerr.With(errors.Join(domain.ErrRemoveFailed, err), "instance_id", id)
		m.observe(ctx, event{op: domain.OpRemove, id: id, label: inst.BuildLabel, outcome: domain.OutcomeFailed, start: start, err: err})
		return err
	}

	snapshot := m.store.Snapshot()
	m.store.Delete(id)
	if err := m.store.Save(); err != nil {
		m.store.Restore(snapshot)
		return fail(err)
	}
	m.forget(id)

	if err := m.fs.RemoveAll(domain.InstancePath(m.store.Root(), id)); err != nil {
		return fail(err)
	}

	m.logger.Info(fmt.Sprintf("removed %s (%s)", id, inst.BuildLabel))
	m.observe(ctx, event{op: domain.OpRemove, id: id, label: inst.BuildLabel, outcome: domain.OutcomeSuccess, start: start})
	return nil
}
