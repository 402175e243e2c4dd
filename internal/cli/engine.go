package cli

import (
	"github.com/gantrylabs/gantry/internal"
	"github.com/gantrylabs/gantry/internal/engine"
	"github.com/gantrylabs/gantry/internal/moby"
	"github.com/gantrylabs/gantry/internal/runtime"
)

// Opens the container engine selected by the settings.
//
// The caller owns the returned engine and must close it.
func openEngine(settings *internal.Settings) (engine.Engine, error) {
	switch settings.Engine {
	case internal.EngineDocker:
		return moby.New()
	default:
		return runtime.New(settings.ContainerdAddress, settings.ContainerdNamespace)
	}
}
