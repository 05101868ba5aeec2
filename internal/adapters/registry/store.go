// Package registry persists the runtime registry as a JSON file in the managed root.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RegistryStore = (*Store)(nil)

// Store implements ports.RegistryStore. Instances are kept in a map keyed by
// id plus an insertion order; readers always receive copies.
type Store struct {
	mu          sync.RWMutex
	root        string
	path        string
	simulate    bool
	now         func() time.Time
	loaded      bool
	active      string
	order       []string
	instances   map[string]domain.Instance
	lastUpdated time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithSimulate makes Save validate and encode without writing.
func WithSimulate(simulate bool) Option {
	return func(s *Store) {
		s.simulate = simulate
	}
}

// WithClock overrides the time source used for lastUpdated.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store for the managed root. Nothing is read until Init or Load.
func NewStore(root string, opts ...Option) *Store {
	s := &Store{
		root:      root,
		path:      domain.RegistryPath(root),
		now:       time.Now,
		instances: make(map[string]domain.Instance),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the registry under root, starting an empty one when no file exists yet.
func Open(root string, opts ...Option) (*Store, error) {
	s := NewStore(root, opts...)
	if err := s.Load(); err != nil {
		if !errors.Is(err, domain.ErrRegistryNotFound) {
			return nil, err
		}
		s.Init()
	}
	return s, nil
}

// Init replaces the in-memory state with an empty registry.
func (s *Store) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = ""
	s.order = nil
	s.instances = make(map[string]domain.Instance)
	s.lastUpdated = time.Time{}
	s.loaded = true
}

// Load replaces the in-memory state with the registry file.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return zerr.With(zerr.Wrap(domain.ErrRegistryNotFound, "load"), "path", s.path)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrRegistryReadFailed.Error()), "path", s.path)
	}

	var reg domain.Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRegistryReadFailed.Error()), "path", s.path)
	}

	if reg.SchemaVersion != domain.SchemaVersion {
		schemaErr := zerr.Wrap(domain.ErrSchemaMismatch, fmt.Sprintf("found %q, expected %q", reg.SchemaVersion, domain.SchemaVersion))
		return zerr.With(schemaErr, "path", s.path)
	}

	order, instances, err := index(reg.Instances)
	if err != nil {
		return zerr.With(err, "path", s.path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = order
	s.instances = instances
	s.active = reg.ActiveInstanceID
	if _, ok := instances[s.active]; !ok {
		s.active = ""
	}
	s.lastUpdated = reg.LastUpdated
	s.loaded = true
	return nil
}

// index builds the id map and rejects duplicate ids or major versions.
func index(list []domain.Instance) ([]string, map[string]domain.Instance, error) {
	order := make([]string, 0, len(list))
	instances := make(map[string]domain.Instance, len(list))
	majors := make(map[int]string, len(list))

	for _, inst := range list {
		if _, dup := instances[inst.ID]; dup {
			return nil, nil, zerr.With(zerr.New("duplicate instance id in registry"), "id", inst.ID)
		}
		if other, dup := majors[inst.MajorVersion]; dup {
			dupErr := zerr.With(zerr.New("duplicate major version in registry"), "id", inst.ID)
			return nil, nil, zerr.With(dupErr, "conflicts_with", other)
		}
		majors[inst.MajorVersion] = inst.ID
		instances[inst.ID] = inst.Clone()
		order = append(order, inst.ID)
	}
	return order, instances, nil
}

// Save rewrites lastUpdated and persists the registry with write-then-rename.
// The lock is held across encode and write so health check write-backs cannot interleave.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return zerr.With(zerr.Wrap(domain.ErrNotLoaded, "save"), "path", s.path)
	}

	now := s.now().UTC()
	reg := s.snapshotLocked()
	reg.LastUpdated = now

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrRegistryWriteFailed.Error())
	}

	if s.simulate {
		return nil
	}

	if err := writeAtomic(s.path, data); err != nil {
		return zerr.With(err, "path", s.path)
	}

	s.lastUpdated = now
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrRegistryWriteFailed.Error())
	}

	tmpFile, err := os.CreateTemp(dir, ".jdk-registry-*.json")
	if err != nil {
		return zerr.Wrap(err, domain.ErrRegistryWriteFailed.Error())
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, domain.ErrRegistryWriteFailed.Error())
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, domain.ErrRegistryWriteFailed.Error())
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrRegistryWriteFailed.Error())
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrRegistryWriteFailed.Error())
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, domain.ErrRegistryWriteFailed.Error())
	}
	return nil
}

// Loaded reports whether Init or Load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Root returns the managed directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the registry file location.
func (s *Store) Path() string {
	return s.path
}

// LastUpdated returns the timestamp of the last successful save or load.
func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// Instances returns every instance in registry order.
func (s *Store) Instances() []domain.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Instance, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.instances[id].Clone())
	}
	return out
}

// Instance looks an instance up by id.
func (s *Store) Instance(id string) (domain.Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, ok := s.instances[id]
	if !ok {
		return domain.Instance{}, false
	}
	return inst.Clone(), true
}

// ByMajor looks an instance up by major version.
func (s *Store) ByMajor(major int) (domain.Instance, bool) {
	return s.find(func(inst domain.Instance) bool { return inst.MajorVersion == major })
}

// ByBuildLabel looks an instance up by build label.
func (s *Store) ByBuildLabel(label string) (domain.Instance, bool) {
	return s.find(func(inst domain.Instance) bool { return inst.BuildLabel == label })
}

func (s *Store) find(match func(domain.Instance) bool) (domain.Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if inst := s.instances[id]; match(inst) {
			return inst.Clone(), true
		}
	}
	return domain.Instance{}, false
}

// Put appends inst, or replaces the instance with the same id. A different
// instance holding the same major version is a conflict.
func (s *Store) Put(inst domain.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		if id != inst.ID && s.instances[id].MajorVersion == inst.MajorVersion {
			conflict := zerr.Wrap(domain.ErrVersionConflict, fmt.Sprintf("major version %d", inst.MajorVersion))
			return zerr.With(conflict, "installed", id)
		}
	}

	if _, exists := s.instances[inst.ID]; !exists {
		s.order = append(s.order, inst.ID)
	}
	s.instances[inst.ID] = inst.Clone()
	return nil
}

// Update applies fn to a copy of the instance and writes the copy back.
// The id and major version cannot be changed through fn.
func (s *Store) Update(id string, fn func(*domain.Instance)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrInstanceNotFound, "update"), "id", id)
	}

	cp := inst.Clone()
	fn(&cp)
	cp.ID = inst.ID
	cp.MajorVersion = inst.MajorVersion
	s.instances[id] = cp
	return nil
}

// Delete removes an instance and clears the active id if it pointed to it.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instances[id]; !ok {
		return false
	}
	delete(s.instances, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	if s.active == id {
		s.active = ""
	}
	return true
}

// Active returns the designated current instance id.
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActive designates an installed instance as current. An empty id clears it.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if _, ok := s.instances[id]; !ok {
			return zerr.With(zerr.Wrap(domain.ErrInstanceNotFound, "set active"), "id", id)
		}
	}
	s.active = id
	return nil
}

// Snapshot returns a deep copy of the registry.
func (s *Store) Snapshot() domain.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Registry {
	reg := domain.Registry{
		SchemaVersion:    domain.SchemaVersion,
		RootPath:         s.root,
		ActiveInstanceID: s.active,
		Instances:        make([]domain.Instance, 0, len(s.order)),
		LastUpdated:      s.lastUpdated,
	}
	for _, id := range s.order {
		reg.Instances = append(reg.Instances, s.instances[id].Clone())
	}
	return reg
}

// Restore replaces the in-memory state with a snapshot taken by Snapshot.
func (s *Store) Restore(snapshot domain.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = make([]string, 0, len(snapshot.Instances))
	s.instances = make(map[string]domain.Instance, len(snapshot.Instances))
	for _, inst := range snapshot.Instances {
		s.order = append(s.order, inst.ID)
		s.instances[inst.ID] = inst.Clone()
	}
	s.active = snapshot.ActiveInstanceID
	s.lastUpdated = snapshot.LastUpdated
}
