// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/jman/internal/adapters/archive"
	_ "go.trai.ch/jman/internal/adapters/catalog"
	_ "go.trai.ch/jman/internal/adapters/config"
	_ "go.trai.ch/jman/internal/adapters/fs"
	_ "go.trai.ch/jman/internal/adapters/history"
	_ "go.trai.ch/jman/internal/adapters/logger"
	_ "go.trai.ch/jman/internal/adapters/metrics"
	_ "go.trai.ch/jman/internal/adapters/probe"
	_ "go.trai.ch/jman/internal/adapters/registry"
	_ "go.trai.ch/jman/internal/adapters/shell"
	_ "go.trai.ch/jman/internal/adapters/telemetry"
	_ "go.trai.ch/jman/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/jman/internal/app"
	_ "go.trai.ch/jman/internal/engine"
)
