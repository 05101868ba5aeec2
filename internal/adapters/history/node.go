package history

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jman/internal/adapters/config"
	"go.trai.ch/jman/internal/core/ports"
)

// NodeID is the unique identifier for the history journal Graft node.
const NodeID graft.ID = "adapter.history"

func init() {
	graft.Register(graft.Node[ports.Journal]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Journal, error) {
			settings, err := graft.Dep[config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			if !settings.HistoryEnabled() {
				return Noop{}, nil
			}
			return Open(ctx, settings.History.DSN)
		},
	})
}
