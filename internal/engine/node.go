package engine

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/jman/internal/adapters/archive"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jman/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jman/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jman/internal/adapters/history"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jman/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jman/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jman/internal/adapters/probe"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jman/internal/adapters/registry"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jman/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/jman/internal/core/ports"
)

// NodeID is the unique identifier for the manager Graft node.
const NodeID graft.ID = "engine.manager"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			registry.NodeID,
			archive.NodeID,
			fs.FileSystemNodeID,
			fs.HasherNodeID,
			probe.NodeID,
			logger.NodeID,
			history.NodeID,
			metrics.NodeID,
			telemetry.NodeID,
		},
		Run: runManagerNode,
	})
}

func runManagerNode(ctx context.Context) (*Manager, error) {
	settings, err := graft.Dep[config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.RegistryStore](ctx)
	if err != nil {
		return nil, err
	}

	archiver, err := graft.Dep[ports.Archiver](ctx)
	if err != nil {
		return nil, err
	}

	fileSystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	versionProbe, err := graft.Dep[ports.VersionProbe](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
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

	tracer, err := graft.Dep[trace.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return NewManager(store, archiver, fileSystem, hasher, versionProbe, log).
		WithDryRun(settings.DryRun).
		WithSearchDepth(settings.SearchDepth).
		WithJournal(journal).
		WithMetrics(mt).
		WithTracer(tracer), nil
}
