package app

import (
	"errors"
	"io"

	"go.trai.ch/jman/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/jman/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App      *App
	Logger   ports.Logger
	Settings config.Settings
}

// Close releases the App and then the logger's file sink, if any.
func (c *Components) Close() error {
	err := c.App.Close()
	if closer, ok := c.Logger.(io.Closer); ok {
		err = errors.Join(err, closer.Close())
	}
	return err
}
