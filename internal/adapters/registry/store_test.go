package registry_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jman/internal/adapters/registry"
	"go.trai.ch/jman/internal/core/domain"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func instance(major int) domain.Instance {
	label := fmt.Sprintf("runtime-%d.0.1", major)
	return domain.Instance{
		ID:           domain.InstanceID(major, label),
		Name:         domain.DefaultName(major),
		BuildLabel:   label,
		MajorVersion: major,
		OS:           domain.OSLinux,
		InstalledAt:  fixedNow,
		Checksums: []domain.FileChecksum{
			{Path: "bin/java", Fingerprint: "abc", LastVerified: fixedNow},
		},
		VerificationStatus: domain.StatusVerified,
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := registry.NewStore(t.TempDir())

	err := s.Load()
	require.ErrorIs(t, err, domain.ErrRegistryNotFound)
	assert.False(t, s.Loaded())
}

func TestStore_SaveBeforeLoad(t *testing.T) {
	s := registry.NewStore(t.TempDir())

	require.ErrorIs(t, s.Save(), domain.ErrNotLoaded)
}

func TestStore_SaveAndLoad(t *testing.T) {
	root := t.TempDir()
	s := registry.NewStore(root, registry.WithClock(clock))
	s.Init()

	require.NoError(t, s.Put(instance(17)))
	require.NoError(t, s.Put(instance(21)))
	require.NoError(t, s.SetActive("jdk-21-openjdk"))
	require.NoError(t, s.Save())
	assert.Equal(t, fixedNow, s.LastUpdated())

	data, err := os.ReadFile(domain.RegistryPath(root))
	require.NoError(t, err)

	var onDisk domain.Registry
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, domain.SchemaVersion, onDisk.SchemaVersion)
	assert.Equal(t, root, onDisk.RootPath)
	assert.Equal(t, "jdk-21-openjdk", onDisk.ActiveInstanceID)
	assert.True(t, fixedNow.Equal(onDisk.LastUpdated))
	require.Len(t, onDisk.Instances, 2)

	reloaded := registry.NewStore(root)
	require.NoError(t, reloaded.Load())
	assert.True(t, reloaded.Loaded())
	assert.Equal(t, []string{"jdk-17-openjdk", "jdk-21-openjdk"}, ids(reloaded.Instances()))
	assert.Equal(t, "jdk-21-openjdk", reloaded.Active())

	got, ok := reloaded.Instance("jdk-17-openjdk")
	require.True(t, ok)
	assert.Equal(t, "abc", got.Checksums[0].Fingerprint)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestStore_LoadSchemaMismatch(t *testing.T) {
	root := t.TempDir()
	writeRegistry(t, root, `{"schemaVersion":"0.9.0","rootPath":"x","instances":[]}`)

	err := registry.NewStore(root).Load()
	require.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestStore_LoadMalformed(t *testing.T) {
	root := t.TempDir()
	writeRegistry(t, root, `{"schemaVersion":`)

	err := registry.NewStore(root).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrRegistryReadFailed.Error())
}

func TestStore_LoadDuplicateMajor(t *testing.T) {
	root := t.TempDir()
	writeRegistry(t, root, `{"schemaVersion":"1.0.0","rootPath":"x","instances":[
		{"id":"jdk-17-openjdk","majorVersion":17},
		{"id":"jdk-17-temurin","majorVersion":17}
	]}`)

	require.Error(t, registry.NewStore(root).Load())
}

func TestStore_LoadDropsDanglingActive(t *testing.T) {
	root := t.TempDir()
	writeRegistry(t, root, `{"schemaVersion":"1.0.0","rootPath":"x","activeInstanceId":"jdk-8-openjdk","instances":[]}`)

	s := registry.NewStore(root)
	require.NoError(t, s.Load())
	assert.Empty(t, s.Active())
}

func TestOpen(t *testing.T) {
	t.Run("starts empty when no file exists", func(t *testing.T) {
		s, err := registry.Open(t.TempDir())
		require.NoError(t, err)
		assert.True(t, s.Loaded())
		assert.Empty(t, s.Instances())
	})

	t.Run("propagates read errors", func(t *testing.T) {
		root := t.TempDir()
		writeRegistry(t, root, `not json`)

		_, err := registry.Open(root)
		require.Error(t, err)
	})
}

func TestStore_SimulateWritesNothing(t *testing.T) {
	root := t.TempDir()
	s := registry.NewStore(root, registry.WithSimulate(true))
	s.Init()
	require.NoError(t, s.Put(instance(17)))

	require.NoError(t, s.Save())

	_, err := os.Stat(domain.RegistryPath(root))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_SaveFailure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(domain.RegistryPath(root), "blocker"), 0o750))

	s := registry.NewStore(root)
	s.Init()

	err := s.Save()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrRegistryWriteFailed.Error())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestStore_PutMajorConflict(t *testing.T) {
	s := registry.NewStore(t.TempDir())
	s.Init()
	require.NoError(t, s.Put(instance(17)))

	other := instance(17)
	other.ID = "jdk-17-temurin"
	require.ErrorIs(t, s.Put(other), domain.ErrVersionConflict)

	replaced := instance(17)
	replaced.BuildLabel = "runtime-17.0.9"
	require.NoError(t, s.Put(replaced))
	assert.Len(t, s.Instances(), 1)

	got, ok := s.ByBuildLabel("runtime-17.0.9")
	require.True(t, ok)
	assert.Equal(t, "jdk-17-openjdk", got.ID)
}

func TestStore_Lookups(t *testing.T) {
	s := registry.NewStore(t.TempDir())
	s.Init()
	require.NoError(t, s.Put(instance(11)))

	_, ok := s.ByMajor(11)
	assert.True(t, ok)
	_, ok = s.ByMajor(17)
	assert.False(t, ok)
	_, ok = s.Instance("jdk-17-openjdk")
	assert.False(t, ok)
	_, ok = s.ByBuildLabel("nope")
	assert.False(t, ok)
}

func TestStore_Update(t *testing.T) {
	s := registry.NewStore(t.TempDir())
	s.Init()
	require.NoError(t, s.Put(instance(17)))

	err := s.Update("jdk-17-openjdk", func(inst *domain.Instance) {
		inst.VerificationStatus = domain.StatusCorrupted
		inst.ID = "renamed"
		inst.MajorVersion = 99
	})
	require.NoError(t, err)

	got, ok := s.Instance("jdk-17-openjdk")
	require.True(t, ok)
	assert.Equal(t, domain.StatusCorrupted, got.VerificationStatus)
	assert.Equal(t, 17, got.MajorVersion)

	require.ErrorIs(t, s.Update("missing", func(*domain.Instance) {}), domain.ErrInstanceNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := registry.NewStore(t.TempDir())
	s.Init()
	require.NoError(t, s.Put(instance(17)))

	got, _ := s.Instance("jdk-17-openjdk")
	got.Checksums[0].Fingerprint = "tampered"
	got.Name = "changed"

	again, _ := s.Instance("jdk-17-openjdk")
	assert.Equal(t, "abc", again.Checksums[0].Fingerprint)
	assert.Equal(t, "Java 17", again.Name)
}

func TestStore_DeleteClearsActive(t *testing.T) {
	s := registry.NewStore(t.TempDir())
	s.Init()
	require.NoError(t, s.Put(instance(17)))
	require.NoError(t, s.Put(instance(21)))
	require.NoError(t, s.SetActive("jdk-17-openjdk"))

	assert.True(t, s.Delete("jdk-17-openjdk"))
	assert.False(t, s.Delete("jdk-17-openjdk"))
	assert.Empty(t, s.Active())
	assert.Equal(t, []string{"jdk-21-openjdk"}, ids(s.Instances()))

	require.ErrorIs(t, s.SetActive("jdk-17-openjdk"), domain.ErrInstanceNotFound)
	require.NoError(t, s.SetActive(""))
}

func TestStore_SnapshotRestore(t *testing.T) {
	s := registry.NewStore(t.TempDir())
	s.Init()
	require.NoError(t, s.Put(instance(17)))
	require.NoError(t, s.SetActive("jdk-17-openjdk"))

	snap := s.Snapshot()

	require.NoError(t, s.Put(instance(21)))
	require.NoError(t, s.Update("jdk-17-openjdk", func(inst *domain.Instance) {
		inst.Checksums[0].Fingerprint = "changed"
	}))
	s.Delete("jdk-17-openjdk")

	assert.Equal(t, "abc", snap.Instances[0].Checksums[0].Fingerprint)

	s.Restore(snap)
	assert.Equal(t, []string{"jdk-17-openjdk"}, ids(s.Instances()))
	assert.Equal(t, "jdk-17-openjdk", s.Active())

	got, _ := s.Instance("jdk-17-openjdk")
	assert.Equal(t, "abc", got.Checksums[0].Fingerprint)
}

func writeRegistry(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(domain.RegistryPath(root), []byte(content), 0o600))
}

func ids(instances []domain.Instance) []string {
	out := make([]string, 0, len(instances))
	for _, inst := range instances {
		out = append(out, inst.ID)
	}
	return out
}
