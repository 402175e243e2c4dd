package cli

import (
	"context"
	"fmt"

	"github.com/gantrylabs/gantry/internal"
	"github.com/gantrylabs/gantry/internal/manifest"
	"github.com/gantrylabs/gantry/internal/recipe"
	"github.com/gantrylabs/gantry/internal/service"
)

// Represents the 'gantry up' command.
type UpCmd struct {
	Path string `short:"p" default:"." help:"Project root, used to derive the default tag and name."`
	Tag  string `short:"t" help:"Image tag to run. Defaults to <project>:latest." placeholder:"NAME"`
	Name string `short:"n" help:"Service name. Defaults to the project name." placeholder:"ID"`
	Port int    `help:"Host port the service answers on." placeholder:"N"`
}

// Executes the up command.
//
// Starts the service container from the built image and blocks until it
// answers on its root endpoint, then prints the URL.
func (c *UpCmd) Run(ctx context.Context) error {
	settings, err := internal.LoadSettings()
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = manifest.ProjectName(c.Path)
	}
	tag := c.Tag
	if tag == "" {
		tag = recipe.DefaultTag(name)
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

	result, err := service.Up(ctx, eng, service.UpOptions{
		Tag:  tag,
		Name: name,
		Port: port,
	})
	if err != nil {
		return err
	}

	fmt.Println(result.URL)
	return nil
}
