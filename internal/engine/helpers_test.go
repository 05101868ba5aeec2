package engine_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jman/internal/adapters/fs"
	"go.trai.ch/jman/internal/adapters/registry"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/jman/internal/core/ports/mocks"
	"go.trai.ch/jman/internal/engine"
	"go.uber.org/mock/gomock"
)

const testOS = domain.OSLinux

// tickClock advances one second on every reading.
type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTickClock() *tickClock {
	return &tickClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type harness struct {
	t        *testing.T
	ctrl     *gomock.Controller
	root     string
	store    *registry.Store
	archiver *mocks.MockArchiver
	probe    *mocks.MockVersionProbe
	logger   *mocks.MockLogger
	mgr      *engine.Manager
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	hasher ports.Hasher
	dryRun bool
}

func withHasher(h ports.Hasher) harnessOption {
	return func(c *harnessConfig) { c.hasher = h }
}

func withDryRun() harnessOption {
	return func(c *harnessConfig) { c.dryRun = true }
}

// newHarness builds a Manager over a real registry store and file system,
// with the archiver and version probe mocked.
func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	cfg := harnessConfig{hasher: fs.NewHasher()}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctrl := gomock.NewController(t)
	root := filepath.Join(t.TempDir(), "runtimes")
	clock := newTickClock()

	store := registry.NewStore(root, registry.WithClock(clock.Now), registry.WithSimulate(cfg.dryRun))
	store.Init()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	h := &harness{
		t:        t,
		ctrl:     ctrl,
		root:     root,
		store:    store,
		archiver: mocks.NewMockArchiver(ctrl),
		probe:    mocks.NewMockVersionProbe(ctrl),
		logger:   log,
	}
	h.mgr = engine.NewManager(store, h.archiver, fs.NewFileSystem(), cfg.hasher, h.probe, log).
		WithOS(testOS).
		WithClock(clock.Now).
		WithDryRun(cfg.dryRun)
	return h
}

// jdkFiles is the content of a minimal runtime distribution.
func jdkFiles(version string) map[string]string {
	return map[string]string{
		"bin/java":       "java " + version,
		"bin/javac":      "javac " + version,
		"lib/modules":    "modules " + version,
		"lib/jrt-fs.jar": "jrt " + version,
		"release":        "JAVA_VERSION=" + version,
	}
}

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o755))
	}
}

// archive creates a placeholder archive file; extraction is mocked.
func (h *harness) archive(name string) string {
	h.t.Helper()
	dir := filepath.Join(h.t.TempDir(), "downloads")
	require.NoError(h.t, os.MkdirAll(dir, 0o750))
	p := filepath.Join(dir, name)
	require.NoError(h.t, os.WriteFile(p, []byte("archive"), 0o600))
	return p
}

// expectExtract makes the next extraction produce topDir/files inside the destination.
func (h *harness) expectExtract(topDir string, files map[string]string) *gomock.Call {
	return h.archiver.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, dest string) error {
			writeTree(h.t, filepath.Join(dest, topDir), files)
			return nil
		},
	)
}

func (h *harness) expectProbe(major int) *gomock.Call {
	return h.probe.EXPECT().ProbeVersion(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, exe string) (int, string, error) {
			if _, err := os.Stat(exe); err != nil {
				return 0, "", err
			}
			return major, fmt.Sprintf("%d.0.1", major), nil
		},
	)
}

// install runs a successful Add of a "runtime-<version>" archive.
func (h *harness) install(major int, version string) *engine.Entry {
	h.t.Helper()
	h.expectExtract("jdk-"+version, jdkFiles(version))
	h.expectProbe(major)

	e, err := h.mgr.Add(h.t.Context(), engine.AddRequest{
		ArchivePath:  h.archive("runtime-" + version + ".tar.gz"),
		MajorVersion: major,
	})
	require.NoError(h.t, err)
	return e
}

// assertState checks that the registry and the managed root match before.
// The root may hold nothing but the registry file and one directory per
// instance.
func (h *harness) assertState(before domain.Registry) {
	h.t.Helper()

	after := h.store.Snapshot()
	assert.Equal(h.t, before.Instances, after.Instances)
	assert.Equal(h.t, before.ActiveInstanceID, after.ActiveInstanceID)

	assert.ElementsMatch(h.t, rootEntries(h.t, h.root), idsOf(before.Instances))
}

// rootEntries lists every entry of root except the registry file.
func rootEntries(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return []string{}
	}
	require.NoError(t, err)

	out := []string{}
	for _, e := range entries {
		if e.Name() != domain.RegistryFileName {
			out = append(out, e.Name())
		}
	}
	return out
}

// assertNoScratch checks that no temp or backup area is left in root.
func assertNoScratch(t *testing.T, root string) {
	t.Helper()
	for _, dir := range []string{domain.TempDirName, domain.BackupDirName} {
		assert.NoDirExists(t, filepath.Join(root, dir))
	}
}

func idsOf(instances []domain.Instance) []string {
	out := make([]string, 0, len(instances))
	for _, inst := range instances {
		out = append(out, inst.ID)
	}
	return out
}

func sha(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// reload reads the registry file from disk into a fresh store.
func (h *harness) reload() *registry.Store {
	h.t.Helper()
	s := registry.NewStore(h.root)
	require.NoError(h.t, s.Load())
	return s
}

// blockRegistry replaces the registry file with a non-empty directory so that
// the next save fails.
func blockRegistry(t *testing.T, root string) {
	t.Helper()
	registryFile := domain.RegistryPath(root)
	require.NoError(t, os.RemoveAll(registryFile))
	require.NoError(t, os.MkdirAll(filepath.Join(registryFile, "blocker"), 0o750))
}
