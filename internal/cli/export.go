package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gantrylabs/gantry/internal"
	"github.com/gantrylabs/gantry/internal/manifest"
	"github.com/gantrylabs/gantry/internal/paths"
	"github.com/gantrylabs/gantry/internal/recipe"
)

// Represents the 'gantry export' command.
type ExportCmd struct {
	Path string `short:"p" default:"." help:"Project root, used to derive the default tag."`
	Tag  string `short:"t" help:"Image tag to export. Defaults to <project>:latest." placeholder:"NAME"`
	Dir  string `help:"Destination directory. Defaults to the XDG data dir." placeholder:"DIR"`
}

// Executes the export command.
//
// Writes an archive of an already-built image and prints its path.
func (c *ExportCmd) Run(ctx context.Context) error {
	settings, err := internal.LoadSettings()
	if err != nil {
		return err
	}

	tag := c.Tag
	if tag == "" {
		tag = recipe.DefaultTag(manifest.ProjectName(c.Path))
	}
	dir := c.Dir
	if dir == "" {
		dir = paths.Exports()
	}

	eng, err := openEngine(settings)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return err
	}

	out := filepath.Join(dir, recipe.ExportFilename)
	if err := eng.Export(ctx, tag, out); err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}
