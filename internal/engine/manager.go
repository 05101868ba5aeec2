// Package engine runs the install, update and remove workflows over the
// runtime registry and hands out Entries for per-instance operations.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Manager coordinates the file primitives, the version probe and the registry.
// Add, Update and Remove share one guard; a second call while one is running
// is rejected with domain.ErrAlreadyInstalling.
type Manager struct {
	store    ports.RegistryStore
	archiver ports.Archiver
	fs       ports.FileSystem
	hasher   ports.Hasher
	probe    ports.VersionProbe
	logger   ports.Logger
	journal  ports.Journal
	metrics  ports.Metrics
	tracer   trace.Tracer

	dryRun      bool
	searchDepth int
	os          string
	now         func() time.Time

	busy atomic.Bool

	mu      sync.Mutex
	entries map[string]*Entry
}

// NewManager creates a new Manager with the given dependencies.
func NewManager(
	store ports.RegistryStore,
	archiver ports.Archiver,
	fs ports.FileSystem,
	hasher ports.Hasher,
	probe ports.VersionProbe,
	log ports.Logger,
) *Manager {
	return &Manager{
		store:       store,
		archiver:    archiver,
		fs:          fs,
		hasher:      hasher,
		probe:       probe,
		logger:      log,
		journal:     discardJournal{},
		metrics:     discardMetrics{},
		tracer:      noop.NewTracerProvider().Tracer(""),
		searchDepth: domain.DefaultSearchDepth,
		os:          domain.CurrentOS(),
		now:         time.Now,
		entries:     make(map[string]*Entry),
	}
}

// WithDryRun makes Add, Update and Remove log what they would do without
// touching disk. The registry store is expected to be in simulate mode too.
func (m *Manager) WithDryRun(dryRun bool) *Manager {
	m.dryRun = dryRun
	return m
}

// WithSearchDepth bounds the executable search inside extracted archives.
func (m *Manager) WithSearchDepth(depth int) *Manager {
	if depth > 0 {
		m.searchDepth = depth
	}
	return m
}

// WithJournal records every workflow outcome in j.
func (m *Manager) WithJournal(j ports.Journal) *Manager {
	if j != nil {
		m.journal = j
	}
	return m
}

// WithMetrics reports workflow and health observations to mt.
func (m *Manager) WithMetrics(mt ports.Metrics) *Manager {
	if mt != nil {
		m.metrics = mt
	}
	return m
}

// WithTracer records a span per workflow and per slow step in t.
func (m *Manager) WithTracer(t trace.Tracer) *Manager {
	if t != nil {
		m.tracer = t
	}
	return m
}

// WithOS overrides the host platform used for executable names and critical files.
func (m *Manager) WithOS(os string) *Manager {
	m.os = os
	return m
}

// WithClock overrides the time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Root returns the managed directory.
func (m *Manager) Root() string {
	return m.store.Root()
}

// DryRun reports whether mutating workflows are simulated.
func (m *Manager) DryRun() bool {
	return m.dryRun
}

// Busy reports whether a mutating workflow currently holds the guard.
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

// acquire takes the guard without waiting.
func (m *Manager) acquire() bool {
	return m.busy.CompareAndSwap(false, true)
}

func (m *Manager) release() {
	m.busy.Store(false)
}

// entry returns the cached Entry for id, creating it on first use so usage
// locks survive between lookups.
func (m *Manager) entry(id string) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[id]; ok {
		return e
	}
	e := newEntry(id, m.entryDeps())
	m.entries[id] = e
	return e
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// GetByID returns the Entry of an installed instance.
func (m *Manager) GetByID(id string) (*Entry, bool) {
	if _, ok := m.store.Instance(id); !ok {
		return nil, false
	}
	return m.entry(id), true
}

// GetByBuildLabel returns the Entry of the instance installed from label.
func (m *Manager) GetByBuildLabel(label string) (*Entry, bool) {
	inst, ok := m.store.ByBuildLabel(label)
	if !ok {
		return nil, false
	}
	return m.entry(inst.ID), true
}

// GetByVersion returns the Entry of the instance with the given major version.
func (m *Manager) GetByVersion(major int) (*Entry, bool) {
	inst, ok := m.store.ByMajor(major)
	if !ok {
		return nil, false
	}
	return m.entry(inst.ID), true
}

// List returns an Entry per installed instance, in registry order.
func (m *Manager) List() []*Entry {
	instances := m.store.Instances()
	out := make([]*Entry, 0, len(instances))
	for _, inst := range instances {
		out = append(out, m.entry(inst.ID))
	}
	return out
}

// InstallList summarizes the installed instances.
func (m *Manager) InstallList() []domain.InstallInfo {
	return domain.Summaries(m.store.Instances())
}

// Instances returns copies of the installed records.
func (m *Manager) Instances() []domain.Instance {
	return m.store.Instances()
}

// Active returns the Entry designated as current, if any.
func (m *Manager) Active() (*Entry, bool) {
	id := m.store.Active()
	if id == "" {
		return nil, false
	}
	return m.GetByID(id)
}

// SetActive designates an installed instance as current and saves the registry.
func (m *Manager) SetActive(id string) error {
	snapshot := m.store.Snapshot()
	if err := m.store.SetActive(id); err != nil {
		return err
	}
	if err := m.store.Save(); err != nil {
		m.store.Restore(snapshot)
		return err
	}
	return nil
}

// Verify checks the file health of one instance and saves the result.
func (m *Manager) Verify(ctx context.Context, id string) (domain.VerificationResult, error) {
	e, ok := m.GetByID(id)
	if !ok {
		return domain.VerificationResult{}, zerr.With(zerr.Wrap(domain.ErrInstanceNotFound, "verify"), "instance_id", id)
	}

	ctx, span := m.startWorkflow(ctx, domain.OpVerify, id)
	defer span.End()

	start := m.now()
	res, err := e.CheckFileHealth(ctx)
	if saveErr := m.saveHealth(); saveErr != nil && err == nil {
		err = saveErr
	}
	if err != nil {
		m.observe(ctx, event{op: domain.OpVerify, id: id, outcome: domain.OutcomeFailed, start: start, err: err})
		return res, err
	}

	m.metrics.HealthObserved(id, res.Status)
	m.observe(ctx, event{op: domain.OpVerify, id: id, label: e.BuildLabel(), outcome: domain.OutcomeSuccess, start: start})
	return res, nil
}

// CheckHealthAll checks every instance concurrently, then saves once.
// Results keep registry order. The first health check error is returned
// after the timestamps gathered so far have been saved.
func (m *Manager) CheckHealthAll(ctx context.Context) ([]domain.VerificationResult, error) {
	ctx, span := m.startWorkflow(ctx, domain.OpVerify, "")
	defer span.End()

	start := m.now()
	entries := m.List()
	results := make([]domain.VerificationResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, e := range entries {
		g.Go(func() error {
			res, err := e.CheckFileHealth(gctx)
			if err != nil {
				return err
			}
			results[i] = res
			m.metrics.HealthObserved(e.ID(), res.Status)
			return nil
		})
	}
	checkErr := g.Wait()

	if err := m.saveHealth(); err != nil && checkErr == nil {
		checkErr = err
	}
	if checkErr != nil {
		m.observe(ctx, event{op: domain.OpVerify, outcome: domain.OutcomeFailed, start: start, err: checkErr})
		return nil, checkErr
	}

	m.observe(ctx, event{op: domain.OpVerify, outcome: domain.OutcomeSuccess, start: start})
	return results, nil
}

// saveHealth persists health check results unless a mutating workflow holds
// the guard. That workflow owns the registry file until it saves or rolls back.
func (m *Manager) saveHealth() error {
	if m.Busy() {
		m.logger.Info("health results not saved: another operation is in progress")
		return nil
	}
	return m.store.Save()
}

// scratchToken derives a short unique name for a temp directory.
func (m *Manager) scratchToken(op domain.Operation, archive string) string {
	key := fmt.Sprintf("%s|%s|%d", op, archive, m.now().UnixNano())
	return fmt.Sprintf("%016x", xxhash.Sum64String(key))
}
