// Package app implements the application layer for jman.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/jman/internal/engine"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	manager     *engine.Manager
	catalog     ports.CatalogLoader
	executor    ports.Executor
	journal     ports.Journal
	metrics     ports.Metrics
	logger      ports.Logger
	watcher     ports.Watcher
	watchWindow time.Duration
	catalogPath string
	os          string
}

// New creates a new App instance.
func New(
	mgr *engine.Manager,
	catalog ports.CatalogLoader,
	executor ports.Executor,
	journal ports.Journal,
	metrics ports.Metrics,
	log ports.Logger,
) *App {
	return &App{
		manager:  mgr,
		catalog:  catalog,
		executor: executor,
		journal:  journal,
		metrics:  metrics,
		logger:   log,
		os:       domain.CurrentOS(),
	}
}

// WithCatalog sets the default catalog file.
func (a *App) WithCatalog(path string) *App {
	a.catalogPath = path
	return a
}

// WithWatcher enables Watch. Changes are coalesced over window before a
// runtime is re-verified.
func (a *App) WithWatcher(w ports.Watcher, window time.Duration) *App {
	a.watcher = w
	a.watchWindow = window
	return a
}

// WithOS overrides the platform used to pick catalog downloads.
func (a *App) WithOS(os string) *App {
	a.os = os
	return a
}

// InstallOptions configures Install.
type InstallOptions struct {
	Archive string
	Major   int
	Name    string
	// Use designates the new instance as the active runtime.
	Use bool
}

// UpdateOptions configures Update.
type UpdateOptions struct {
	Selector string
	Archive  string
	Label    string
	// FromCatalog requires the catalog to offer a newer build and records
	// the catalog's build label.
	FromCatalog bool
}

// ExecOptions carries the standard streams of an exec call.
type ExecOptions struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Listing is the installed runtimes together with the active id.
type Listing struct {
	Runtimes []domain.InstallInfo `json:"runtimes"`
	Active   string               `json:"active,omitempty"`
}

// Install adds a runtime from a local archive.
func (a *App) Install(ctx context.Context, opts InstallOptions) (domain.InstallInfo, error) {
	e, err := a.manager.Add(ctx, engine.AddRequest{
		ArchivePath:  opts.Archive,
		MajorVersion: opts.Major,
		Name:         opts.Name,
	})
	if err != nil {
		return domain.InstallInfo{}, err
	}

	if opts.Use && !a.manager.DryRun() {
		if err := a.manager.SetActive(e.ID()); err != nil {
			return domain.InstallInfo{}, zerr.Wrap(err, "installed but could not set active runtime")
		}
	}
	return summarize(e), nil
}

// Update replaces the build of an installed runtime.
func (a *App) Update(ctx context.Context, opts UpdateOptions) (domain.InstallInfo, error) {
	e, err := a.resolve(opts.Selector)
	if err != nil {
		return domain.InstallInfo{}, err
	}

	if opts.FromCatalog {
		runtimes, err := a.loadCatalog()
		if err != nil {
			return domain.InstallInfo{}, err
		}
		handle, ok := e.CheckUpdate(runtimes, a.os)
		if !ok {
			return domain.InstallInfo{}, zerr.With(zerr.Wrap(domain.ErrNoUpdateAvailable, "update"), "instance_id", e.ID())
		}
		a.logger.Info(fmt.Sprintf("updating %s from %s to %s", e.ID(), e.BuildLabel(), handle.BuildLabel()))
		updated, err := handle.Install(ctx, opts.Archive)
		if err != nil {
			return domain.InstallInfo{}, err
		}
		return summarize(updated), nil
	}

	updated, err := a.manager.Update(ctx, engine.UpdateRequest{
		InstanceID:  e.ID(),
		ArchivePath: opts.Archive,
		BuildLabel:  opts.Label,
	})
	if err != nil {
		return domain.InstallInfo{}, err
	}
	return summarize(updated), nil
}

// Remove deletes an installed runtime.
func (a *App) Remove(ctx context.Context, selector string) error {
	if selector == "" {
		return zerr.Wrap(domain.ErrInstanceNotFound, "remove requires a runtime")
	}
	e, err := a.resolve(selector)
	if err != nil {
		return err
	}
	return a.manager.Remove(ctx, e.ID())
}

// List summarizes the installed runtimes.
func (a *App) List() Listing {
	l := Listing{Runtimes: a.manager.InstallList()}
	if e, ok := a.manager.Active(); ok {
		l.Active = e.ID()
	}
	return l
}

// Verify checks one runtime, or every runtime when selector is empty.
func (a *App) Verify(ctx context.Context, selector string) ([]domain.VerificationResult, error) {
	if selector == "" {
		return a.manager.CheckHealthAll(ctx)
	}

	e, err := a.resolve(selector)
	if err != nil {
		return nil, err
	}
	res, err := a.manager.Verify(ctx, e.ID())
	if err != nil {
		return nil, err
	}
	return []domain.VerificationResult{res}, nil
}

// Outdated lists installed runtimes for which the catalog offers another build.
func (a *App) Outdated() ([]domain.Update, error) {
	runtimes, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	return domain.DetectUpdates(a.manager.Instances(), runtimes, a.os), nil
}

// Available lists catalog runtimes whose major version is not installed.
func (a *App) Available() ([]domain.AvailableRuntime, error) {
	runtimes, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	return domain.Installable(a.manager.Instances(), runtimes, a.os), nil
}

// Use designates a runtime as the active one.
func (a *App) Use(selector string) (domain.InstallInfo, error) {
	if selector == "" {
		return domain.InstallInfo{}, zerr.Wrap(domain.ErrInstanceNotFound, "use requires a runtime")
	}
	e, err := a.resolve(selector)
	if err != nil {
		return domain.InstallInfo{}, err
	}
	if err := a.manager.SetActive(e.ID()); err != nil {
		return domain.InstallInfo{}, err
	}
	return summarize(e), nil
}

// Exec runs the runtime's java executable while holding a usage lock on it.
// An empty selector runs the active runtime.
func (a *App) Exec(ctx context.Context, selector string, args []string, opts ExecOptions) error {
	e, err := a.resolve(selector)
	if err != nil {
		return err
	}

	if status := e.Status(); status != domain.StatusVerified {
		a.logger.Warn(fmt.Sprintf("runtime %s is %s; run `jman verify %s`", e.ID(), status, e.ID()))
	}

	lockID := e.UseRuntime("exec")
	defer func() {
		if err := e.UnUseRuntime(lockID); err != nil {
			a.logger.Error(err)
		}
	}()

	return a.executor.Execute(ctx, &domain.Command{
		Executable: e.Executable(),
		Args:       args,
		Home:       e.Path(),
		Dir:        opts.Dir,
	}, opts.Stdin, opts.Stdout, opts.Stderr)
}

// History returns up to limit recorded workflows, newest first.
func (a *App) History(ctx context.Context, limit int) ([]domain.Event, error) {
	return a.journal.Recent(ctx, limit)
}

// Close flushes metrics and closes the history journal.
func (a *App) Close() error {
	return errors.Join(a.metrics.Flush(), a.journal.Close())
}

// Watch re-verifies runtimes whose files change and hands each result to
// report. It blocks until ctx is done. An empty selector watches every runtime.
func (a *App) Watch(ctx context.Context, selector string, report func(domain.VerificationResult)) error {
	if a.watcher == nil {
		return zerr.Wrap(domain.ErrWatchFailed, "no file watcher configured")
	}

	var only string
	if selector != "" {
		e, err := a.resolve(selector)
		if err != nil {
			return err
		}
		only = e.ID()
	}

	root := a.manager.Root()
	if err := a.watcher.Start(ctx, root); err != nil {
		return zerr.With(errors.Join(domain.ErrWatchFailed, err), "root", root)
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Error(err)
		}
	}()
	a.logger.Info("watching " + root + " for changes")

	deb := newDebouncer(a.watchWindow, func(paths []string) {
		for _, id := range a.affected(root, only, paths) {
			res, err := a.manager.Verify(ctx, id)
			if err != nil {
				if ctx.Err() == nil {
					a.logger.Error(err)
				}
				continue
			}
			report(res)
		}
	})

	for ev := range a.watcher.Events() {
		deb.add(ev.Path)
	}

	if ctx.Err() != nil {
		deb.stop()
		return nil
	}
	deb.flush()
	return nil
}

// affected maps changed paths to the ids of installed runtimes, in order.
// Paths outside an instance directory, such as the registry file, are ignored.
func (a *App) affected(root, only string, paths []string) []string {
	var ids []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		id, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
		if only != "" && id != only {
			continue
		}
		if _, ok := a.manager.GetByID(id); ok && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// resolve finds a runtime by id, major version or build label. An empty
// selector resolves to the active runtime.
func (a *App) resolve(selector string) (*engine.Entry, error) {
	if selector == "" {
		if e, ok := a.manager.Active(); ok {
			return e, nil
		}
		return nil, domain.ErrNoActiveRuntime
	}
	if e, ok := a.manager.GetByID(selector); ok {
		return e, nil
	}
	if major, err := domain.ParseMajor(selector); err == nil {
		if e, ok := a.manager.GetByVersion(major); ok {
			return e, nil
		}
	}
	if e, ok := a.manager.GetByBuildLabel(selector); ok {
		return e, nil
	}
	return nil, zerr.With(zerr.Wrap(domain.ErrInstanceNotFound, "no runtime matches"), "selector", selector)
}

func (a *App) loadCatalog() ([]domain.AvailableRuntime, error) {
	if a.catalogPath == "" {
		return nil, domain.ErrCatalogNotConfigured
	}
	return a.catalog.Load(a.catalogPath)
}

func summarize(e *engine.Entry) domain.InstallInfo {
	inst, _ := e.Record()
	return domain.Summaries([]domain.Instance{inst})[0]
}
