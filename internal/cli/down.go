package cli

import (
	"context"

	"github.com/gantrylabs/gantry/internal"
	"github.com/gantrylabs/gantry/internal/manifest"
	"github.com/gantrylabs/gantry/internal/service"
)

// Represents the 'gantry down' command.
type DownCmd struct {
	Path string `short:"p" default:"." help:"Project root, used to derive the default name."`
	Name string `short:"n" help:"Service name. Defaults to the project name." placeholder:"ID"`
}

// Executes the down command.
func (c *DownCmd) Run(ctx context.Context) error {
	settings, err := internal.LoadSettings()
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = manifest.ProjectName(c.Path)
	}

	eng, err := openEngine(settings)
	if err != nil {
		return err
	}
	defer eng.Close()

	return service.Down(ctx, eng, name)
}
