package cli

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/gantrylabs/gantry/internal"
	"github.com/gantrylabs/gantry/internal/manifest"
	"github.com/gantrylabs/gantry/internal/recipe"
)

// Represents the 'gantry build' command.
type BuildCmd struct {
	Path      string `short:"p" default:"." help:"Project root directory." type:"existingdir"`
	Git       string `help:"Clone URL used as the project root instead of --path." placeholder:"URL"`
	Tag       string `short:"t" help:"Image tag. Defaults to <project>:latest." placeholder:"NAME"`
	BaseImage string `help:"Base image override." placeholder:"REF"`
	Port      int    `help:"Port the service binds and the image declares." placeholder:"N"`
	NoReload  bool   `help:"Disable reload-on-change in the launch command."`
	Export    string `help:"Write an archive of the image into DIR." placeholder:"DIR"`
}

// Executes the build command.
//
// Validates the project inputs, derives the bootstrap recipe, and runs
// it against the configured engine. The committed tag is the project
// name unless overridden.
func (c *BuildCmd) Run(ctx context.Context) error {
	settings, err := internal.LoadSettings()
	if err != nil {
		return err
	}

	root := c.Path
	if c.Git != "" {
		clone, cleanup, err := cloneProject(ctx, c.Git)
		if err != nil {
			return err
		}
		defer cleanup()
		root = clone
	}

	project, err := manifest.Load(root)
	if err != nil {
		return err
	}

	tag := c.Tag
	if tag == "" {
		tag = recipe.DefaultTag(project.Name())
	}

	baseImage := c.BaseImage
	if baseImage == "" {
		baseImage = settings.BaseImage
	}
	port := c.Port
	if port == 0 {
		port = settings.Port
	}

	eng, err := openEngine(settings)
	if err != nil {
		return err
	}
	defer eng.Close()

	_, err = recipe.Run(ctx, eng, recipe.Options{
		Project: project,
		Tag:     tag,
		BuildID: ulid.Make().String(),
		Plan: recipe.PlanOptions{
			BaseImage: baseImage,
			Port:      port,
			NoReload:  c.NoReload,
		},
		Export: c.Export,
	})
	return err
}
