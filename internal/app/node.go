package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jman/internal/adapters/catalog" //nolint:depguard // Wired in app layer
	"go.trai.ch/jman/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/jman/internal/adapters/history" //nolint:depguard // Wired in app layer
	"go.trai.ch/jman/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/jman/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/jman/internal/adapters/shell"   //nolint:depguard // Wired in app layer
	"go.trai.ch/jman/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/jman/internal/engine"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			engine.NodeID,
			catalog.NodeID,
			shell.NodeID,
			history.NodeID,
			metrics.NodeID,
			logger.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	mgr, err := graft.Dep[*engine.Manager](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.CatalogLoader](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	journal, err := graft.Dep[ports.Journal](ctx)
	if err != nil {
		return nil, err
	}

	mt, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(mgr, loader, executor, journal, mt, log).
		WithCatalog(settings.Catalog).
		WithWatcher(w, settings.Watch.Debounce), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      a,
		Logger:   log,
		Settings: settings,
	}, nil
}
