package capture

import (
	"fmt"
	"log/slog"

	"github.com/tkturners/thumbgen/internal/config"
	"github.com/tkturners/thumbgen/internal/render"
	"github.com/tkturners/thumbgen/internal/render/chrome"
	"github.com/tkturners/thumbgen/internal/render/rodengine"
)

// NewBackend builds the render backend registered under name.
func NewBackend(name string, opts render.Options, logger *slog.Logger) (render.Backend, error) {
	switch name {
	case config.BackendChromedp:
		return chrome.New(opts, logger), nil
	case config.BackendRod:
		return rodengine.New(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown render backend %q (want %s or %s)", name, config.BackendChromedp, config.BackendRod)
	}
}
