package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jman/internal/adapters/config"
	"go.trai.ch/jman/internal/core/ports"
)

// NodeID is the unique identifier for the registry store Graft node.
const NodeID graft.ID = "adapter.registry"

func init() {
	graft.Register(graft.Node[ports.RegistryStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.RegistryStore, error) {
			settings, err := graft.Dep[config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return Open(settings.Root, WithSimulate(settings.DryRun))
		},
	})
}
