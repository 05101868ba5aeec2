package app

import (
	"slices"
	"sync"
	"time"
)

// debouncer coalesces rapid file events into one batch per quiet window.
// Batches are delivered one at a time.
type debouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)

	inflight sync.WaitGroup
	serial   sync.Mutex
}

func newDebouncer(window time.Duration, callback func(paths []string)) *debouncer {
	return &debouncer{
		pending:  make(map[string]struct{}),
		window:   window,
		callback: callback,
	}
}

// add records path and restarts the quiet window.
func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}

	// A timer that was stopped before firing will never call Done itself.
	if d.timer != nil && d.timer.Stop() {
		d.inflight.Done()
	}
	d.inflight.Add(1)
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *debouncer) fire() {
	defer d.inflight.Done()
	d.run(d.take())
}

// flush delivers whatever is pending now and waits for batches in flight.
func (d *debouncer) flush() {
	d.cancelTimer()
	d.run(d.take())
	d.inflight.Wait()
}

// stop drops pending paths and waits for batches in flight.
func (d *debouncer) stop() {
	d.cancelTimer()
	_ = d.take()
	d.inflight.Wait()
}

func (d *debouncer) cancelTimer() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil && d.timer.Stop() {
		d.inflight.Done()
	}
	d.timer = nil
}

func (d *debouncer) take() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	slices.Sort(paths)
	return paths
}

func (d *debouncer) run(paths []string) {
	if len(paths) == 0 || d.callback == nil {
		return
	}
	d.serial.Lock()
	defer d.serial.Unlock()
	d.callback(paths)
}
