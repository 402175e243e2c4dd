package manifest

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gantrylabs/gantry/internal/errx"
)

// Well-known names of the build-time inputs under a project root.
const (
	RequirementsFile = "requirements.txt"
	PyprojectFile    = "pyproject.toml"
	AppDir           = "app"
	TestsDir         = "tests"

	// Module the launch command references (app.main:app).
	entryModule = "app/main.py"
)

// A validated project: the root directory plus its parsed manifests.
type Project struct {
	Root         string        // Absolute path to the project root.
	Requirements []Requirement // Parsed dependency manifest.
	Pyproject    *Pyproject    // Parsed project metadata.
}

// Loads and validates the project at root.
//
// All four inputs must be present: the dependency manifest, the project
// metadata file, the application directory, and the test directory. The
// entry-point module must exist under the application directory, since a
// container whose launch command references a missing module would exit
// immediately instead of serving. Pinned requirement versions must parse
// and agree with any range constraints on the same package.
func Load(root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errx.Wrap(ErrManifest, err)
	}

	if err := requireDir(abs, AppDir); err != nil {
		return nil, err
	}
	if err := requireDir(abs, TestsDir); err != nil {
		return nil, err
	}
	if err := requireFile(abs, entryModule); err != nil {
		return nil, err
	}
	if err := requireFile(abs, PyprojectFile); err != nil {
		return nil, err
	}
	if err := requireFile(abs, RequirementsFile); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(abs, RequirementsFile))
	if err != nil {
		return nil, errx.Wrap(ErrManifest, err)
	}
	defer f.Close()

	reqs, err := ParseRequirements(f)
	if err != nil {
		return nil, err
	}

	if err := validatePins(reqs); err != nil {
		return nil, err
	}

	py, err := LoadPyproject(filepath.Join(abs, PyprojectFile))
	if err != nil {
		return nil, err
	}

	slog.Debug("project loaded",
		"root", abs,
		"name", py.Project.Name,
		"requirements", len(reqs),
	)

	return &Project{
		Root:         abs,
		Requirements: reqs,
		Pyproject:    py,
	}, nil
}

// Returns the project name from pyproject.toml, or the root directory's
// base name when unset.
func (p *Project) Name() string {
	if p.Pyproject != nil && p.Pyproject.Project.Name != "" {
		return p.Pyproject.Project.Name
	}
	return filepath.Base(p.Root)
}

// Returns the project name at root without validating the project.
//
// Reads pyproject.toml when one is present, falling back to the root
// directory's base name. Used for deriving default tags and service
// names in commands that do not need a full project load.
func ProjectName(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Base(root)
	}

	if py, err := LoadPyproject(filepath.Join(abs, PyprojectFile)); err == nil && py.Project.Name != "" {
		return py.Project.Name
	}
	return filepath.Base(abs)
}

// Fails with [ErrMissingInput] unless rel exists under root as a regular file.
func requireFile(root, rel string) error {
	info, err := os.Stat(filepath.Join(root, rel))
	if err != nil || info.IsDir() {
		return errx.Wrapf(ErrMissingInput, "%s not found under %s", rel, root)
	}
	return nil
}

// Fails with [ErrMissingInput] unless rel exists under root as a directory.
func requireDir(root, rel string) error {
	info, err := os.Stat(filepath.Join(root, rel))
	if err != nil || !info.IsDir() {
		return errx.Wrapf(ErrMissingInput, "%s/ not found under %s", rel, root)
	}
	return nil
}
