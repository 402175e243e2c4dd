package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/gantrylabs/gantry/internal"
	"github.com/gantrylabs/gantry/internal/manifest"
	"github.com/gantrylabs/gantry/internal/service"
)

// Represents the 'gantry test' command.
type TestCmd struct {
	Path string `short:"p" default:"." help:"Project root, used to derive the default name."`
	Name string `short:"n" help:"Service name. Defaults to the project name." placeholder:"ID"`
}

// Executes the test command.
//
// Runs the project's pytest suite inside the running service container,
// prints the runner output, and exits non-zero when the suite fails.
func (c *TestCmd) Run(ctx context.Context) error {
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

	ctr := eng.Container(service.ContainerID(name))

	// The engine is closed before any exit path; os.Exit below would
	// skip a deferred close.
	report, err := service.RunTests(ctx, ctr)
	eng.Close()
	if err != nil {
		return err
	}

	fmt.Print(report.Output)

	if !report.OK() {
		os.Exit(report.ExitCode)
	}
	return nil
}
