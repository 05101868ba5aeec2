package engine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jman/internal/adapters/fs"
	"go.trai.ch/jman/internal/adapters/registry"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/engine"
	"go.uber.org/mock/gomock"
)

func readJava(t *testing.T, e *engine.Entry) string {
	t.Helper()
	data, err := os.ReadFile(e.Executable())
	require.NoError(t, err)
	return string(data)
}

func TestManager_Update_Success(t *testing.T) {
	h := newHarness(t)
	e := h.install(17, "17.0.8")
	installedAt := e.InstalledAt()

	archive := h.archive("runtime-17.0.9.tar.gz")
	h.expectExtract("jdk-17.0.9", jdkFiles("17.0.9"))
	h.expectProbe(17)

	updated, err := h.mgr.Update(t.Context(), engine.UpdateRequest{InstanceID: e.ID(), ArchivePath: archive})
	require.NoError(t, err)

	assert.Same(t, e, updated, "entries are cached per id")
	assert.Equal(t, "runtime-17.0.9", updated.BuildLabel())
	assert.Equal(t, domain.StatusVerified, updated.Status())
	assert.True(t, updated.InstalledAt().After(installedAt))
	assert.Equal(t, "java 17.0.9", readJava(t, updated))

	for _, c := range updated.Checksums() {
		if c.Path == "bin/java" {
			assert.Equal(t, sha("java 17.0.9"), c.Fingerprint)
		}
	}

	assertNoScratch(t, h.root)
	assert.ElementsMatch(t, []string{e.ID()}, rootEntries(t, h.root))
	_, err = os.Stat(archive)
	assert.True(t, os.IsNotExist(err))

	onDisk, ok := h.reload().Instance(e.ID())
	require.True(t, ok)
	assert.Equal(t, "runtime-17.0.9", onDisk.BuildLabel)
}

func TestManager_Update_ExplicitLabel(t *testing.T) {
	h := newHarness(t)
	e := h.install(17, "17.0.8")

	h.expectExtract("jdk", jdkFiles("17.0.9"))
	h.expectProbe(17)

	_, err := h.mgr.Update(t.Context(), engine.UpdateRequest{
		InstanceID:  e.ID(),
		ArchivePath: h.archive("download.zip"),
		BuildLabel:  "runtime-17.0.9+9",
	})
	require.NoError(t, err)
	assert.Equal(t, "runtime-17.0.9+9", e.BuildLabel())
}

func TestManager_Update_RollsBack(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(h *harness)
		wantErr error
	}{
		{
			name: "extract",
			setup: func(h *harness) {
				h.archiver.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).Return(errBoom)
			},
			wantErr: errBoom,
		},
		{
			name: "locate",
			setup: func(h *harness) {
				h.expectExtract("empty", map[string]string{"readme": "x"})
			},
			wantErr: domain.ErrExecutableNotFound,
		},
		{
			name: "version mismatch",
			setup: func(h *harness) {
				h.expectExtract("jdk-11.0.2", jdkFiles("11.0.2"))
				h.expectProbe(11)
			},
			wantErr: domain.ErrVersionMismatch,
		},
		{
			name: "probe",
			setup: func(h *harness) {
				h.expectExtract("jdk-17.0.9", jdkFiles("17.0.9"))
				h.probe.EXPECT().ProbeVersion(gomock.Any(), gomock.Any()).Return(0, "", errBoom)
			},
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			e := h.install(17, "17.0.8")
			require.NoError(t, h.mgr.SetActive(e.ID()))
			before := h.store.Snapshot()

			tt.setup(h)
			_, err := h.mgr.Update(t.Context(), engine.UpdateRequest{
				InstanceID:  e.ID(),
				ArchivePath: h.archive("runtime-17.0.9.tar.gz"),
			})
			require.ErrorIs(t, err, domain.ErrUpdateFailed)
			require.ErrorIs(t, err, tt.wantErr)

			h.assertState(before)
			assert.Equal(t, "java 17.0.8", readJava(t, e), "previous build must be restored")
			assert.False(t, h.mgr.Busy())

			onDisk, ok := h.reload().Instance(e.ID())
			require.True(t, ok)
			assert.Equal(t, "runtime-17.0.8", onDisk.BuildLabel)
		})
	}
}

func TestManager_Update_SaveFailureRollsBack(t *testing.T) {
	h := newHarness(t)
	e := h.install(17, "17.0.8")
	before := h.store.Snapshot()

	h.expectExtract("jdk-17.0.9", jdkFiles("17.0.9"))
	h.expectProbe(17)

	blockRegistry(t, h.root)

	_, err := h.mgr.Update(t.Context(), engine.UpdateRequest{InstanceID: e.ID(), ArchivePath: h.archive("runtime-17.0.9.tar.gz")})
	require.ErrorIs(t, err, domain.ErrUpdateFailed)

	h.assertState(before)
	assert.Equal(t, "java 17.0.8", readJava(t, e))
}

func TestManager_Update_Preconditions(t *testing.T) {
	t.Run("instance not found", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.mgr.Update(t.Context(), engine.UpdateRequest{InstanceID: "jdk-8-openjdk", ArchivePath: h.archive("a.zip")})
		require.ErrorIs(t, err, domain.ErrInstanceNotFound)
	})

	t.Run("locked", func(t *testing.T) {
		h := newHarness(t)
		e := h.install(17, "17.0.8")
		lock := e.UseRuntime("build")

		_, err := h.mgr.Update(t.Context(), engine.UpdateRequest{InstanceID: e.ID(), ArchivePath: h.archive("runtime-17.0.9.zip")})
		require.ErrorIs(t, err, domain.ErrInstanceLocked)

		require.NoError(t, e.UnUseRuntime(lock))
		h.expectExtract("jdk", jdkFiles("17.0.9"))
		h.expectProbe(17)
		_, err = h.mgr.Update(t.Context(), engine.UpdateRequest{InstanceID: e.ID(), ArchivePath: h.archive("runtime-17.0.9.zip")})
		require.NoError(t, err)
	})

	t.Run("archive not found", func(t *testing.T) {
		h := newHarness(t)
		e := h.install(17, "17.0.8")

		_, err := h.mgr.Update(t.Context(), engine.UpdateRequest{InstanceID: e.ID(), ArchivePath: filepath.Join(t.TempDir(), "missing.zip")})
		require.ErrorIs(t, err, domain.ErrArchiveNotFound)
	})

	t.Run("stale backup", func(t *testing.T) {
		h := newHarness(t)
		e := h.install(17, "17.0.8")
		writeTree(t, domain.BackupPath(h.root, e.ID()), map[string]string{"bin/java": "old"})

		_, err := h.mgr.Update(t.Context(), engine.UpdateRequest{InstanceID: e.ID(), ArchivePath: h.archive("runtime-17.0.9.zip")})
		require.ErrorIs(t, err, domain.ErrBackupExists)
		assert.Equal(t, "java 17.0.8", readJava(t, e))
	})
}

func TestManager_Update_DryRun(t *testing.T) {
	h := newHarness(t)
	e := h.install(17, "17.0.8")
	before := h.store.Snapshot()
	onDisk, err := os.ReadFile(domain.RegistryPath(h.root))
	require.NoError(t, err)

	simulated := registry.NewStore(h.root, registry.WithSimulate(true))
	require.NoError(t, simulated.Load())
	dry := engine.NewManager(simulated, h.archiver, fs.NewFileSystem(), fs.NewHasher(), h.probe, h.logger).
		WithOS(testOS).
		WithDryRun(true)

	archive := h.archive("runtime-17.0.9.tar.gz")
	got, err := dry.Update(t.Context(), engine.UpdateRequest{InstanceID: e.ID(), ArchivePath: archive})
	require.NoError(t, err)
	assert.Equal(t, "runtime-17.0.8", got.BuildLabel())

	h.assertState(before)
	after, err := os.ReadFile(domain.RegistryPath(h.root))
	require.NoError(t, err)
	assert.Equal(t, onDisk, after, "dry run must not rewrite the registry")
	_, err = os.Stat(archive)
	require.NoError(t, err)
	assert.Equal(t, "java 17.0.8", readJava(t, e))
}

func TestUpdateHandle_Install(t *testing.T) {
	h := newHarness(t)
	e := h.install(17, "17.0.8")

	catalog := []domain.AvailableRuntime{{
		Version: "17.0.9",
		Downloads: []domain.Download{
			{OS: domain.OSWindows, DownloadURL: "https://example.com/runtime-17.0.9.zip"},
			{OS: domain.OSLinux, DownloadURL: "https://example.com/runtime-17.0.9.tar.gz"},
		},
	}}

	handle, ok := e.CheckUpdate(catalog, testOS)
	require.True(t, ok)
	assert.Equal(t, e.ID(), handle.InstanceID())
	assert.Equal(t, "runtime-17.0.9", handle.BuildLabel())
	assert.Equal(t, "https://example.com/runtime-17.0.9.tar.gz", handle.DownloadURL())
	assert.Equal(t, "runtime-17.0.8", handle.Update().CurrentBuildLabel)

	h.expectExtract("jdk-17.0.9", jdkFiles("17.0.9"))
	h.expectProbe(17)

	updated, err := handle.Install(context.Background(), h.archive("downloaded.tar.gz"))
	require.NoError(t, err)
	assert.Equal(t, "runtime-17.0.9", updated.BuildLabel())

	_, ok = updated.CheckUpdate(catalog, testOS)
	assert.False(t, ok, "no update once the catalog build is installed")
}
