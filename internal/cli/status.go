package cli

import (
	"context"
	"fmt"

	"github.com/gantrylabs/gantry/internal"
	"github.com/gantrylabs/gantry/internal/manifest"
	"github.com/gantrylabs/gantry/internal/service"
)

// Represents the 'gantry status' command.
type StatusCmd struct {
	Path string `short:"p" default:"." help:"Project root, used to derive the default name."`
	Name string `short:"n" help:"Service name. Defaults to the project name." placeholder:"ID"`
}

// Executes the status command.
func (c *StatusCmd) Run(ctx context.Context) error {
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

	state, err := service.Status(ctx, eng, name)
	if err != nil {
		return err
	}

	fmt.Println(state)
	return nil
}
