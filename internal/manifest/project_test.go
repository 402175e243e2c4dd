package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testPyproject = `[project]
name = "quiz-service"
version = "0.1.0"

[tool.pytest.ini_options]
asyncio_mode = "auto"
`

// Lays out a complete project tree under a temp dir.
func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	dirs := []string{AppDir, TestsDir}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	files := map[string]string{
		RequirementsFile:       "fastapi==0.95.1\nuvicorn[standard]>=0.21.0\n",
		PyprojectFile:          testPyproject,
		"app/main.py":          "app = object()\n",
		"tests/test_main.py":   "def test_main():\n    assert True\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func TestLoad(t *testing.T) {
	root := writeProject(t)

	project, err := Load(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if project.Name() != "quiz-service" {
		t.Fatalf("Name() = %q, want quiz-service", project.Name())
	}
	if len(project.Requirements) != 2 {
		t.Fatalf("len(Requirements) = %d, want 2", len(project.Requirements))
	}
	if !project.Pyproject.HasPytestConfig() {
		t.Fatal("HasPytestConfig() = false, want true")
	}
	if !filepath.IsAbs(project.Root) {
		t.Fatalf("Root = %q, want absolute path", project.Root)
	}
}

func TestLoadMissingInputs(t *testing.T) {
	tests := []struct {
		name   string
		remove string
	}{
		{name: "missing requirements", remove: RequirementsFile},
		{name: "missing pyproject", remove: PyprojectFile},
		{name: "missing app dir", remove: AppDir},
		{name: "missing tests dir", remove: TestsDir},
		{name: "missing entry module", remove: "app/main.py"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeProject(t)
			if err := os.RemoveAll(filepath.Join(root, tt.remove)); err != nil {
				t.Fatal(err)
			}

			_, err := Load(root)
			if !errors.Is(err, ErrMissingInput) {
				t.Fatalf("err = %v, want ErrMissingInput", err)
			}
		})
	}
}

func TestLoadBadRequirements(t *testing.T) {
	root := writeProject(t)
	path := filepath.Join(root, RequirementsFile)
	if err := os.WriteFile(path, []byte("==broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(root)
	if !errors.Is(err, ErrManifest) {
		t.Fatalf("err = %v, want ErrManifest", err)
	}
}

func TestLoadBadPins(t *testing.T) {
	tests := []struct {
		name         string
		requirements string
	}{
		{
			name:         "unparseable pin",
			requirements: "fastapi==not.a.version\n",
		},
		{
			name:         "pin conflicts with range",
			requirements: "fastapi==0.95.1\nfastapi>=1.0.0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeProject(t)
			path := filepath.Join(root, RequirementsFile)
			if err := os.WriteFile(path, []byte(tt.requirements), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(root)
			if !errors.Is(err, ErrManifest) {
				t.Fatalf("err = %v, want ErrManifest", err)
			}
		})
	}
}

func TestProjectName(t *testing.T) {
	root := writeProject(t)

	if got := ProjectName(root); got != "quiz-service" {
		t.Fatalf("ProjectName = %q, want quiz-service", got)
	}

	// An unparseable or absent pyproject falls back to the directory name
	// without failing.
	empty := t.TempDir()
	if got := ProjectName(empty); got != filepath.Base(empty) {
		t.Fatalf("ProjectName = %q, want %q", got, filepath.Base(empty))
	}
}

func TestNameFallsBackToRootDir(t *testing.T) {
	root := writeProject(t)
	path := filepath.Join(root, PyprojectFile)
	if err := os.WriteFile(path, []byte("[tool.other]\nkey = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	project, err := Load(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project.Name() != filepath.Base(root) {
		t.Fatalf("Name() = %q, want %q", project.Name(), filepath.Base(root))
	}
}
