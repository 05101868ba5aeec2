package engine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports/mocks"
	"go.trai.ch/jman/internal/engine"
	"go.uber.org/mock/gomock"
)

func TestManager_Add_Success(t *testing.T) {
	h := newHarness(t)
	archive := h.archive("runtime-17.0.8.tar.gz")

	h.expectExtract("jdk-17.0.8", jdkFiles("17.0.8"))
	h.expectProbe(17)

	e, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: archive, MajorVersion: 17})
	require.NoError(t, err)

	assert.Equal(t, "jdk-17-openjdk", e.ID())
	assert.Equal(t, "Java 17", e.Name())
	assert.Equal(t, "runtime-17.0.8", e.BuildLabel())
	assert.Equal(t, 17, e.MajorVersion())
	assert.Equal(t, testOS, e.OS())
	assert.Equal(t, domain.StatusVerified, e.Status())
	assert.False(t, e.InstalledAt().IsZero())
	assert.Equal(t, filepath.Join(h.root, "jdk-17-openjdk"), e.Path())
	assert.Equal(t, filepath.Join(h.root, "jdk-17-openjdk", "bin", "java"), e.Executable())

	checksums := e.Checksums()
	require.Len(t, checksums, 4)
	byPath := map[string]string{}
	for _, c := range checksums {
		byPath[c.Path] = c.Fingerprint
		assert.False(t, c.LastVerified.IsZero())
	}
	assert.Equal(t, sha("java 17.0.8"), byPath["bin/java"])
	assert.Equal(t, sha("modules 17.0.8"), byPath["lib/modules"])

	data, err := os.ReadFile(filepath.Join(e.Path(), "release"))
	require.NoError(t, err)
	assert.Equal(t, "JAVA_VERSION=17.0.8", string(data))

	_, err = os.Stat(archive)
	assert.True(t, os.IsNotExist(err), "archive should be consumed")
	assertNoScratch(t, h.root)

	onDisk, ok := h.reload().Instance("jdk-17-openjdk")
	require.True(t, ok)
	assert.Equal(t, domain.StatusVerified, onDisk.VerificationStatus)
	assert.Len(t, onDisk.Checksums, 4)
}

func TestManager_Add_CustomNameAndVendor(t *testing.T) {
	h := newHarness(t)
	h.expectExtract("jdk-21", jdkFiles("21.0.1"))
	h.expectProbe(21)

	e, err := h.mgr.Add(t.Context(), engine.AddRequest{
		ArchivePath:  h.archive("OpenJDK21U-jdk_x64_linux_Temurin_21.0.1.tar.gz"),
		MajorVersion: 21,
		Name:         "LTS 21",
	})
	require.NoError(t, err)
	assert.Equal(t, "jdk-21-temurin", e.ID())
	assert.Equal(t, "LTS 21", e.Name())
}

func TestManager_Add_NestedLayout(t *testing.T) {
	h := newHarness(t)
	files := map[string]string{}
	for rel, content := range jdkFiles("17.0.8") {
		files["Contents/Home/"+rel] = content
	}
	h.expectExtract("jdk-17.0.8.jdk", files)
	h.expectProbe(17)

	e, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: h.archive("runtime-17.0.8.tar.gz"), MajorVersion: 17})
	require.NoError(t, err)

	_, err = os.Stat(e.Executable())
	require.NoError(t, err)
}

func TestManager_Add_BinOnlyArchive(t *testing.T) {
	h := newHarness(t)
	h.expectExtract("", map[string]string{"bin/java": "java 17.0.8", "bin/javac": "javac 17.0.8"})
	h.expectProbe(17)

	e, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: h.archive("runtime-17.0.8.zip"), MajorVersion: 17})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(h.root, "jdk-17-openjdk", "bin", "java"))
	assert.Len(t, e.Checksums(), 2)
	assertNoScratch(t, h.root)
}

func TestManager_Add_ExecutableOutsideBin(t *testing.T) {
	h := newHarness(t)
	before := h.store.Snapshot()
	h.expectExtract("", map[string]string{"java": "java 17.0.8", "release": "JAVA_VERSION=17.0.8"})

	_, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: h.archive("runtime-17.0.8.zip"), MajorVersion: 17})
	require.ErrorIs(t, err, domain.ErrExecutableNotFound)
	h.assertState(before)
}

func TestManager_Add_FirstInstallLeavesEmptyRoot(t *testing.T) {
	h := newHarness(t)
	h.expectExtract("jdk-17.0.8", jdkFiles("17.0.8"))
	h.expectProbe(11)

	_, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: h.archive("runtime-17.0.8.tar.gz"), MajorVersion: 17})
	require.ErrorIs(t, err, domain.ErrVersionMismatch)

	assert.Empty(t, rootEntries(t, h.root))
}

func TestManager_Add_MismatchRollsBack(t *testing.T) {
	h := newHarness(t)
	h.install(21, "21.0.1")
	before := h.store.Snapshot()

	archive := h.archive("runtime-17.0.8.tar.gz")
	h.expectExtract("jdk-17.0.8", jdkFiles("17.0.8"))
	h.expectProbe(17)

	_, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: archive, MajorVersion: 11})
	require.ErrorIs(t, err, domain.ErrInstallFailed)
	require.ErrorIs(t, err, domain.ErrVersionMismatch)

	h.assertState(before)
	_, statErr := os.Stat(archive)
	require.NoError(t, statErr, "archive is kept after a failed install")

	onDisk := h.reload()
	assert.Equal(t, []string{"jdk-21-openjdk"}, idsOf(onDisk.Instances()))
}

func TestManager_Add_FailureRollsBack(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(h *harness)
		options func(ctrl *gomock.Controller) []harnessOption
		wantErr error
	}{
		{
			name: "extract",
			setup: func(h *harness) {
				h.archiver.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ string, dest string) error {
						writeTree(h.t, filepath.Join(dest, "partial"), map[string]string{"bin/ja": "x"})
						return errBoom
					})
			},
			wantErr: errBoom,
		},
		{
			name: "locate",
			setup: func(h *harness) {
				h.expectExtract("docs", map[string]string{"readme.txt": "no runtime here"})
			},
			wantErr: domain.ErrExecutableNotFound,
		},
		{
			name: "probe",
			setup: func(h *harness) {
				h.expectExtract("jdk-17.0.8", jdkFiles("17.0.8"))
				h.probe.EXPECT().ProbeVersion(gomock.Any(), gomock.Any()).Return(0, "", domain.ErrProbeFailed)
			},
			wantErr: domain.ErrProbeFailed,
		},
		{
			name: "fingerprint",
			options: func(ctrl *gomock.Controller) []harnessOption {
				hasher := mocks.NewMockHasher(ctrl)
				hasher.EXPECT().Fingerprint(gomock.Any(), gomock.Any()).Return("", errBoom)
				return []harnessOption{withHasher(hasher)}
			},
			setup: func(h *harness) {
				h.expectExtract("jdk-17.0.8", jdkFiles("17.0.8"))
				h.expectProbe(17)
			},
			wantErr: errBoom,
		},
		{
			name: "save",
			setup: func(h *harness) {
				h.expectExtract("jdk-17.0.8", jdkFiles("17.0.8"))
				h.expectProbe(17)
				require.NoError(h.t, os.MkdirAll(filepath.Join(domain.RegistryPath(h.root), "blocker"), 0o750))
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []harnessOption
			if tt.options != nil {
				opts = tt.options(gomock.NewController(t))
			}
			h := newHarness(t, opts...)
			before := h.store.Snapshot()
			tt.setup(h)

			_, err := h.mgr.Add(t.Context(), engine.AddRequest{
				ArchivePath:  h.archive("runtime-17.0.8.tar.gz"),
				MajorVersion: 17,
			})
			require.ErrorIs(t, err, domain.ErrInstallFailed)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}

			h.assertState(before)
			assert.False(t, h.mgr.Busy(), "guard must be released")
		})
	}
}

func TestManager_Add_TargetExists(t *testing.T) {
	h := newHarness(t)
	orphan := filepath.Join(h.root, "jdk-17-openjdk")
	writeTree(t, orphan, map[string]string{"marker": "left over"})
	before := h.store.Snapshot()

	h.expectExtract("jdk-17.0.8", jdkFiles("17.0.8"))

	_, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: h.archive("runtime-17.0.8.tar.gz"), MajorVersion: 17})
	require.ErrorIs(t, err, domain.ErrInstallFailed)
	require.ErrorIs(t, err, domain.ErrTargetExists)

	assert.Equal(t, before.Instances, h.store.Snapshot().Instances)
	data, readErr := os.ReadFile(filepath.Join(orphan, "marker"))
	require.NoError(t, readErr, "a directory this call did not place must survive rollback")
	assert.Equal(t, "left over", string(data))
	assertNoScratch(t, h.root)
}

func TestManager_Add_Preconditions(t *testing.T) {
	t.Run("version conflict", func(t *testing.T) {
		h := newHarness(t)
		h.install(17, "17.0.8")
		before := h.store.Snapshot()

		_, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: h.archive("runtime-17.0.9.zip"), MajorVersion: 17})
		require.ErrorIs(t, err, domain.ErrVersionConflict)
		h.assertState(before)
	})

	t.Run("archive not found", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: filepath.Join(t.TempDir(), "nope.zip"), MajorVersion: 17})
		require.ErrorIs(t, err, domain.ErrArchiveNotFound)
		assert.Empty(t, h.store.Instances())
	})

	t.Run("invalid major", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: h.archive("runtime.zip"), MajorVersion: 0})
		require.ErrorIs(t, err, domain.ErrInvalidMajorVersion)
	})
}

func TestManager_Add_DryRun(t *testing.T) {
	h := newHarness(t, withDryRun())
	archive := h.archive("runtime-17.0.8.tar.gz")

	e, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: archive, MajorVersion: 17})
	require.NoError(t, err)

	assert.Equal(t, "jdk-17-openjdk", e.ID())
	assert.Equal(t, domain.StatusUnverified, e.Status())
	assert.Empty(t, e.Checksums())
	assert.Empty(t, h.store.Instances())

	res, err := e.CheckFileHealth(t.Context())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnverified, res.Status)

	_, err = os.Stat(h.root)
	assert.True(t, os.IsNotExist(err), "dry run must not touch the managed root")
	_, err = os.Stat(archive)
	require.NoError(t, err)
}

func TestManager_MutualExclusion(t *testing.T) {
	h := newHarness(t)
	h.install(11, "11.0.2")

	started := make(chan struct{})
	release := make(chan struct{})
	h.archiver.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, dest string) error {
			close(started)
			<-release
			writeTree(h.t, filepath.Join(dest, "jdk-17.0.8"), jdkFiles("17.0.8"))
			return nil
		}).Times(1)
	h.expectProbe(17)

	done := make(chan error, 1)
	go func() {
		_, err := h.mgr.Add(context.Background(), engine.AddRequest{
			ArchivePath:  h.archive("runtime-17.0.8.tar.gz"),
			MajorVersion: 17,
		})
		done <- err
	}()
	<-started

	assert.True(t, h.mgr.Busy())

	_, err := h.mgr.Add(t.Context(), engine.AddRequest{ArchivePath: h.archive("runtime-21.zip"), MajorVersion: 21})
	require.ErrorIs(t, err, domain.ErrAlreadyInstalling)

	_, err = h.mgr.Update(t.Context(), engine.UpdateRequest{InstanceID: "jdk-11-openjdk", ArchivePath: h.archive("runtime-11.0.3.zip")})
	require.ErrorIs(t, err, domain.ErrAlreadyInstalling)

	require.ErrorIs(t, h.mgr.Remove(t.Context(), "jdk-11-openjdk"), domain.ErrAlreadyInstalling)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, h.mgr.Busy())
	assert.ElementsMatch(t, []string{"jdk-11-openjdk", "jdk-17-openjdk"}, idsOf(h.store.Instances()))
}

func TestManager_UniqueMajorInvariant(t *testing.T) {
	h := newHarness(t)
	h.install(17, "17.0.8")
	h.install(21, "21.0.1")

	_, err := h.mgr.Add(t.Context(), engine.AddRequest{
		ArchivePath:  h.archive("OpenJDK17U-jdk_x64_linux_Temurin_17.0.9.tar.gz"),
		MajorVersion: 17,
	})
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	seenID := map[string]bool{}
	seenMajor := map[int]bool{}
	for _, inst := range h.reload().Instances() {
		assert.False(t, seenID[inst.ID])
		assert.False(t, seenMajor[inst.MajorVersion])
		seenID[inst.ID] = true
		seenMajor[inst.MajorVersion] = true
	}
	assert.Len(t, seenID, 2)
}
