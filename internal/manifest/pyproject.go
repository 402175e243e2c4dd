package manifest

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/gantrylabs/gantry/internal/errx"
)

// Project metadata parsed from pyproject.toml.
//
// Only the fields gantry consumes are modeled; unknown tables and keys
// are ignored so that arbitrary tool configuration passes through.
type Pyproject struct {
	Project struct {
		Name         string   `toml:"name"`
		Version      string   `toml:"version"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`

	Tool struct {
		Pytest struct {
			IniOptions map[string]any `toml:"ini_options"`
		} `toml:"pytest"`
	} `toml:"tool"`
}

// Reads and parses a pyproject.toml file.
func LoadPyproject(path string) (*Pyproject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errx.Wrap(ErrManifest, err)
	}

	var p Pyproject
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, errx.Wrapf(ErrManifest, "%s: %w", path, err)
	}

	return &p, nil
}

// Reports whether the file carries pytest configuration.
func (p *Pyproject) HasPytestConfig() bool {
	return len(p.Tool.Pytest.IniOptions) > 0
}
