package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), PyprojectFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPyproject(t *testing.T) {
	path := writeTOML(t, testPyproject)

	p, err := LoadPyproject(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Project.Name != "quiz-service" {
		t.Fatalf("Name = %q, want quiz-service", p.Project.Name)
	}
	if p.Project.Version != "0.1.0" {
		t.Fatalf("Version = %q, want 0.1.0", p.Project.Version)
	}
	if !p.HasPytestConfig() {
		t.Fatal("HasPytestConfig() = false, want true")
	}
}

func TestLoadPyprojectNoPytest(t *testing.T) {
	path := writeTOML(t, "[project]\nname = \"svc\"\n")

	p, err := LoadPyproject(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.HasPytestConfig() {
		t.Fatal("HasPytestConfig() = true, want false")
	}
}

func TestLoadPyprojectInvalidTOML(t *testing.T) {
	path := writeTOML(t, "[project\nname = broken")

	if _, err := LoadPyproject(path); !errors.Is(err, ErrManifest) {
		t.Fatalf("err = %v, want ErrManifest", err)
	}
}

func TestLoadPyprojectMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), PyprojectFile)

	if _, err := LoadPyproject(path); !errors.Is(err, ErrManifest) {
		t.Fatalf("err = %v, want ErrManifest", err)
	}
}
