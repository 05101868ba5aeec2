package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jman/internal/adapters/watcher"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/jman/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// collect gathers events until one for want arrives or the timeout passes.
func collect(t *testing.T, w *watcher.Watcher, want string) []ports.WatchEvent {
	t.Helper()

	found := make(chan []ports.WatchEvent, 1)
	go func() {
		var got []ports.WatchEvent
		for ev := range w.Events() {
			got = append(got, ev)
			if ev.Path == want {
				found <- got
				return
			}
		}
		found <- got
	}()

	select {
	case got := <-found:
		return got
	case <-time.After(5 * time.Second):
		t.Fatalf("no event for %s", want)
		return nil
	}
}

func TestWatcher_ReportsInstanceChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	root := t.TempDir()
	lib := filepath.Join(root, "jdk-17-openjdk", "lib")
	require.NoError(t, os.MkdirAll(lib, 0o750))
	modules := filepath.Join(lib, "modules")
	require.NoError(t, os.WriteFile(modules, []byte("modules"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.NewWatcher(log)
	require.NoError(t, w.Start(ctx, root))
	defer func() { require.NoError(t, w.Stop()) }()

	require.NoError(t, os.WriteFile(modules, []byte("tampered"), 0o600))

	got := collect(t, w, modules)
	require.NotEmpty(t, got)
	assert.Equal(t, ports.OpWrite, got[len(got)-1].Operation)
}

func TestWatcher_SkipsScratchDirectories(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	root := t.TempDir()
	temp := filepath.Join(root, domain.TempDirName)
	require.NoError(t, os.MkdirAll(temp, 0o750))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.NewWatcher(log)
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(filepath.Join(temp, "scratch"), []byte("x"), 0o600))
	marker := filepath.Join(root, "marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o600))

	for _, ev := range collect(t, w, marker) {
		assert.NotContains(t, ev.Path, filepath.Join(temp, "scratch"))
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	w := watcher.NewWatcher(log)
	require.NoError(t, w.Start(context.Background(), t.TempDir()))
	defer func() { _ = w.Stop() }()

	require.Error(t, w.Start(context.Background(), t.TempDir()))
}

func TestWatcher_IdleIsEmpty(t *testing.T) {
	w := watcher.NewWatcher(nil)
	for range w.Events() {
		t.Fatal("idle watcher must not yield events")
	}
	require.NoError(t, w.Stop())
}
