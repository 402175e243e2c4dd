package recipe

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gantrylabs/gantry/internal/engine"
	"github.com/gantrylabs/gantry/internal/errx"
	"github.com/gantrylabs/gantry/internal/manifest"
	"github.com/gantrylabs/gantry/internal/paths"
)

// Filename of the image archive produced by an export.
const ExportFilename = "image.tar"

// Controls a build run.
type Options struct {
	Project *manifest.Project // Validated project to build.
	Tag     string            // Tag for the committed image.
	BuildID string            // Unique session identifier, used in container IDs and logs.
	Plan    PlanOptions       // Recipe derivation overrides.
	Export  string            // Directory for the exported archive. Empty skips the export.
}

// Returned after a successful build.
type Result struct {
	Tag    string // Tag of the committed image.
	Export string // Path of the exported archive, if one was written.
}

// Executes the bootstrap build sequence against the container engine.
//
// The base image is pulled, an idle build container is started from it,
// and the recipe's steps run in order. The container's filesystem is then
// committed under the tag with the recipe's entrypoint, environment,
// working directory, and declared port. Each step must complete before
// the next begins; the first failure aborts the build, the build
// container is destroyed, and no image is committed.
func Run(ctx context.Context, eng engine.Engine, opts Options) (*Result, error) {
	r, err := Plan(opts.Plan)
	if err != nil {
		return nil, err
	}

	slog.Info("executing build",
		"build", opts.BuildID,
		"tag", opts.Tag,
		"base", r.BaseImage,
		"steps", len(r.Steps),
	)

	if err := eng.Pull(ctx, r.BaseImage); err != nil {
		return nil, errx.Wrap(ErrBuild, err)
	}

	ctr, err := eng.CreateBuild(ctx, r.BaseImage, buildContainerID(opts.BuildID))
	if err != nil {
		return nil, errx.Wrap(ErrBuild, err)
	}
	defer ctr.Destroy(ctx)

	if err := executeSteps(ctx, ctr, r.Steps, newStepState(), opts.Project.Root); err != nil {
		return nil, err
	}

	if err := ctr.Stop(ctx); err != nil {
		return nil, errx.Wrap(ErrBuild, err)
	}

	if err := ctr.Commit(ctx, opts.Tag, r.ImageConfig()); err != nil {
		return nil, errx.Wrap(ErrBuild, err)
	}

	result := &Result{Tag: opts.Tag}

	if opts.Export != "" {
		if err := os.MkdirAll(opts.Export, paths.DefaultDirMode); err != nil {
			return nil, errx.Wrap(ErrFileSystemOperation, err)
		}
		result.Export = filepath.Join(opts.Export, ExportFilename)
		if err := eng.Export(ctx, opts.Tag, result.Export); err != nil {
			return nil, errx.Wrap(ErrBuild, err)
		}
	}

	slog.Info("image built", "tag", result.Tag)
	return result, nil
}

// Returns the build container ID for a session.
func buildContainerID(buildID string) string {
	return "gantry-build-" + buildID
}
