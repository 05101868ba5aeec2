package ports

import "go.trai.ch/jman/internal/core/domain"

// RegistryStore is the durable record of installed runtime instances.
// Every accessor returns copies; callers write changes back by id.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type RegistryStore interface {
	// Init replaces the in-memory state with an empty registry and marks it loaded.
	Init()

	// Load replaces the in-memory state with the persisted registry.
	Load() error

	// Save persists the registry atomically. In simulate mode nothing is written.
	Save() error

	// Loaded reports whether Init or Load has succeeded.
	Loaded() bool

	// Root returns the managed directory.
	Root() string

	// Instances returns every instance in registry order.
	Instances() []domain.Instance

	// Instance looks an instance up by id.
	Instance(id string) (domain.Instance, bool)

	// ByMajor looks an instance up by major version.
	ByMajor(major int) (domain.Instance, bool)

	// ByBuildLabel looks an instance up by build label.
	ByBuildLabel(label string) (domain.Instance, bool)

	// Put appends inst, or replaces the instance with the same id.
	Put(inst domain.Instance) error

	// Update applies fn to a copy of the instance and writes it back.
	Update(id string, fn func(*domain.Instance)) error

	// Delete removes an instance, clearing the active id if it pointed to it.
	Delete(id string) bool

	// Active returns the designated current instance id, if any.
	Active() string

	// SetActive designates an installed instance as current. An empty id clears it.
	SetActive(id string) error

	// Snapshot returns a deep copy of the registry.
	Snapshot() domain.Registry

	// Restore replaces the in-memory state with a snapshot.
	Restore(snapshot domain.Registry)
}
