package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jman/internal/adapters/config"
	"go.trai.ch/jman/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			settings, err := graft.Dep[config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return FromSettings(settings.Log), nil
		},
	})
}

// FromSettings builds a Logger for the configured console mode and log file.
func FromSettings(s config.LogSettings) *Logger {
	l := New()
	l.SetJSON(s.JSON)
	l.SetFile(s.File, FileOptions{
		MaxSizeMB:  s.MaxSizeMB,
		MaxBackups: s.MaxBackups,
		MaxAgeDays: s.MaxAgeDays,
		Compress:   s.Compress,
	})
	return l
}
