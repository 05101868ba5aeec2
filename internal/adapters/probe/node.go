package probe

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jman/internal/adapters/config"
	"go.trai.ch/jman/internal/core/ports"
)

// NodeID is the unique identifier for the version probe Graft node.
const NodeID graft.ID = "adapter.probe"

func init() {
	graft.Register(graft.Node[ports.VersionProbe]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.VersionProbe, error) {
			settings, err := graft.Dep[config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewJavaProbe(settings.ProbeTimeout), nil
		},
	})
}
