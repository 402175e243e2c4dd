package cli

import (
	"context"
	"fmt"

	"github.com/gantrylabs/gantry/internal"
	"github.com/gantrylabs/gantry/internal/manifest"
	"github.com/gantrylabs/gantry/internal/recipe"
)

// Represents the 'gantry dockerfile' command.
type DockerfileCmd struct {
	Path      string `short:"p" default:"." help:"Project root directory." type:"existingdir"`
	BaseImage string `help:"Base image override." placeholder:"REF"`
	Port      int    `help:"Port the service binds and the image declares." placeholder:"N"`
	NoReload  bool   `help:"Disable reload-on-change in the launch command."`
}

// Executes the dockerfile command.
//
// Validates the project and prints the Dockerfile equivalent of the
// bootstrap recipe, for building with docker directly.
func (c *DockerfileCmd) Run(ctx context.Context) error {
	settings, err := internal.LoadSettings()
	if err != nil {
		return err
	}

	if _, err := manifest.Load(c.Path); err != nil {
		return err
	}

	baseImage := c.BaseImage
	if baseImage == "" {
		baseImage = settings.BaseImage
	}
	port := c.Port
	if port == 0 {
		port = settings.Port
	}

	r, err := recipe.Plan(recipe.PlanOptions{
		BaseImage: baseImage,
		Port:      port,
		NoReload:  c.NoReload,
	})
	if err != nil {
		return err
	}

	rendered, err := r.Dockerfile()
	if err != nil {
		return err
	}

	fmt.Print(rendered)
	return nil
}
