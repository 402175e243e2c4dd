package recipe

import (
	"path/filepath"
	"sort"
	"strconv"

	"github.com/gantrylabs/gantry/internal/engine"
	"github.com/gantrylabs/gantry/internal/errx"
	"github.com/gantrylabs/gantry/internal/manifest"
)

const (

	// Working directory established inside the image. The application
	// tree is copied to <workdir>/app so that the launch command can
	// reference the app.main:app entry point.
	DefaultWorkdir = "/code"

	// Port the service binds and the image declares.
	DefaultPort = 8000

	// Base runtime image used when none is configured.
	DefaultBaseImage = "docker.io/library/python:3.11-slim"
)

// Returns the default image tag for a project name.
func DefaultTag(name string) string {
	return name + ":latest"
}

// Interpreter behavior flags baked into every image: no bytecode cache
// writes, no output buffering.
func interpreterEnv() map[string]string {
	return map[string]string{
		"PYTHONDONTWRITEBYTECODE": "1",
		"PYTHONUNBUFFERED":        "1",
	}
}

// The ordered bootstrap sequence for one project, plus the image
// configuration applied when the result is committed.
type Recipe struct {
	BaseImage  string            // Base runtime image (pinned).
	Workdir    string            // Working directory inside the image.
	Port       int               // Declared and bound listen port.
	Reload     bool              // Whether the launch command watches for source changes.
	Env        map[string]string // Environment baked into the image.
	Steps      []Step            // Build steps, in execution order.
	Entrypoint []string          // Launch command for containers started from the image.
}

// Controls recipe derivation.
type PlanOptions struct {
	BaseImage string // Base image override. Empty uses [DefaultBaseImage].
	Port      int    // Port override. Zero uses [DefaultPort].
	NoReload  bool   // Disables reload-on-change in the launch command.
}

// Derives the bootstrap sequence.
//
// The ordering is fixed: working directory, manifest and metadata copy,
// dependency install, application copy, test copy. Installation precedes
// the code copies so that code-only changes never re-run the installer.
// The project root the copy sources resolve against is supplied at
// execution time.
func Plan(opts PlanOptions) (*Recipe, error) {
	baseImage := opts.BaseImage
	if baseImage == "" {
		baseImage = DefaultBaseImage
	}
	port := opts.Port
	if port == 0 {
		port = DefaultPort
	}

	r := &Recipe{
		BaseImage: baseImage,
		Workdir:   DefaultWorkdir,
		Port:      port,
		Reload:    !opts.NoReload,
		Env:       interpreterEnv(),
	}

	r.Entrypoint = []string{
		"uvicorn", "app.main:app",
		"--host", "0.0.0.0",
		"--port", strconv.Itoa(port),
	}
	if r.Reload {
		r.Entrypoint = append(r.Entrypoint, "--reload")
	}

	r.Steps = []Step{
		{Workdir: r.Workdir, Env: r.Env, Label: "establish working directory"},
		{Copy: manifest.RequirementsFile + " " + manifest.RequirementsFile, Label: "copy dependency manifest"},
		{Copy: manifest.PyprojectFile + " " + manifest.PyprojectFile, Label: "copy project metadata"},
		{Run: "pip install --no-cache-dir --upgrade -r " + manifest.RequirementsFile, Label: "install dependencies"},
		{Copy: manifest.AppDir + " " + manifest.AppDir, Label: "copy application source"},
		{Copy: manifest.TestsDir + " " + manifest.TestsDir, Label: "copy test source"},
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Checks the recipe's internal consistency.
//
// The declared port must match the port the launch command binds;
// declaring one port while binding another would produce an image whose
// metadata lies about where the service listens.
func (r *Recipe) Validate() error {
	if r.BaseImage == "" {
		return errx.Wrapf(ErrRecipe, "base image not set")
	}
	if !filepath.IsAbs(r.Workdir) {
		return errx.Wrapf(ErrRecipe, "workdir %q is not absolute", r.Workdir)
	}
	if r.Port <= 0 || r.Port > 65535 {
		return errx.Wrapf(ErrRecipe, "port %d out of range", r.Port)
	}
	if len(r.Entrypoint) == 0 {
		return errx.Wrapf(ErrRecipe, "entrypoint not set")
	}

	bound, ok := entrypointPort(r.Entrypoint)
	if !ok {
		return errx.Wrapf(ErrRecipe, "entrypoint does not bind a port")
	}
	if bound != r.Port {
		return errx.Wrapf(ErrRecipe, "declared port %d does not match bound port %d", r.Port, bound)
	}

	return nil
}

// Extracts the port bound by a launch command's "--port" argument.
func entrypointPort(args []string) (int, bool) {
	for i, arg := range args {
		if arg != "--port" || i+1 >= len(args) {
			continue
		}
		port, err := strconv.Atoi(args[i+1])
		if err != nil {
			return 0, false
		}
		return port, true
	}
	return 0, false
}

// Returns the image configuration applied when the build container is
// committed.
//
// Environment entries are sorted so that identical recipes always
// produce identical image configs.
func (r *Recipe) ImageConfig() engine.ImageConfig {
	env := make([]string, 0, len(r.Env))
	for k, v := range r.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)

	return engine.ImageConfig{
		Entrypoint:  r.Entrypoint,
		Env:         env,
		WorkingDir:  r.Workdir,
		ExposedPort: r.Port,
	}
}
