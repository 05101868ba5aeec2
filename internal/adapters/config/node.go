package config

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the settings Graft node.
// The command line replaces it through graft.PatchValue once flags are parsed.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[Settings]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Settings, error) {
			return Load("", nil)
		},
	})
}
