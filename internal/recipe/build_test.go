package recipe

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gantrylabs/gantry/internal/engine"
	"github.com/gantrylabs/gantry/internal/manifest"
)

// Records engine operations in order and simulates step outcomes.
type fakeEngine struct {
	ctr      *fakeContainer
	pulled   []string
	exported []string
	closed   bool
}

func (e *fakeEngine) Pull(ctx context.Context, ref string) error {
	e.pulled = append(e.pulled, ref)
	return nil
}

func (e *fakeEngine) CreateBuild(ctx context.Context, image, id string) (engine.Container, error) {
	e.ctr.id = id
	return e.ctr, nil
}

func (e *fakeEngine) Serve(ctx context.Context, opts engine.ServeOptions) (engine.Container, error) {
	return e.ctr, nil
}

func (e *fakeEngine) Container(id string) engine.Container { return e.ctr }

func (e *fakeEngine) Export(ctx context.Context, tag, path string) error {
	e.exported = append(e.exported, path)
	return os.WriteFile(path, []byte("archive"), 0o644)
}

func (e *fakeEngine) Close() error {
	e.closed = true
	return nil
}

type fakeContainer struct {
	id        string
	ops       []string // recorded operations, in order
	failRun   string   // substring of a run command that exits non-zero
	commitTag string
	committed *engine.ImageConfig
	stopped   bool
	destroyed bool
}

func (c *fakeContainer) ID() string { return c.id }

func (c *fakeContainer) Exec(ctx context.Context, shell, command string, env []string, workdir string) (*engine.ExecResult, error) {
	c.ops = append(c.ops, "run "+command)
	if c.failRun != "" && strings.Contains(command, c.failRun) {
		return &engine.ExecResult{ExitCode: 1, Stderr: "simulated failure"}, nil
	}
	return &engine.ExecResult{}, nil
}

func (c *fakeContainer) ExecArgs(ctx context.Context, args []string) (*engine.ExecResult, error) {
	c.ops = append(c.ops, "exec "+strings.Join(args, " "))
	return &engine.ExecResult{}, nil
}

func (c *fakeContainer) MkdirAll(ctx context.Context, path string) error {
	c.ops = append(c.ops, "mkdir "+path)
	return nil
}

func (c *fakeContainer) CopyTo(ctx context.Context, r io.Reader, destDir string) error {
	// Drain the tar stream so the writer goroutine completes.
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	c.ops = append(c.ops, "copy "+destDir)
	return nil
}

func (c *fakeContainer) Commit(ctx context.Context, tag string, cfg engine.ImageConfig) error {
	c.ops = append(c.ops, "commit "+tag)
	c.commitTag = tag
	c.committed = &cfg
	return nil
}

func (c *fakeContainer) Status(ctx context.Context) (engine.State, error) {
	return engine.StateRunning, nil
}

func (c *fakeContainer) Stop(ctx context.Context) error {
	c.stopped = true
	return nil
}

func (c *fakeContainer) Destroy(ctx context.Context) {
	c.destroyed = true
}

// Lays out a complete project tree under a temp dir.
func writeBuildProject(t *testing.T) *manifest.Project {
	t.Helper()
	root := t.TempDir()

	for _, d := range []string{manifest.AppDir, manifest.TestsDir} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	files := map[string]string{
		manifest.RequirementsFile: "fastapi==0.95.1\n",
		manifest.PyprojectFile:    "[project]\nname = \"quiz-service\"\n",
		"app/main.py":             "app = object()\n",
		"tests/test_main.py":      "def test_main():\n    assert True\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	project, err := manifest.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	return project
}

func TestRun(t *testing.T) {
	project := writeBuildProject(t)
	eng := &fakeEngine{ctr: &fakeContainer{}}

	result, err := Run(t.Context(), eng, Options{
		Project: project,
		Tag:     "quiz-service:latest",
		BuildID: "test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Tag != "quiz-service:latest" {
		t.Fatalf("Tag = %q", result.Tag)
	}
	if len(eng.pulled) != 1 || eng.pulled[0] != DefaultBaseImage {
		t.Fatalf("pulled = %v, want [%s]", eng.pulled, DefaultBaseImage)
	}
	if eng.ctr.id != "gantry-build-test" {
		t.Fatalf("container id = %q", eng.ctr.id)
	}
	if !eng.ctr.stopped {
		t.Fatal("build container was not stopped before commit")
	}
	if !eng.ctr.destroyed {
		t.Fatal("build container was not destroyed")
	}
	if eng.ctr.commitTag != "quiz-service:latest" {
		t.Fatalf("commitTag = %q", eng.ctr.commitTag)
	}
	if eng.ctr.committed.ExposedPort != DefaultPort {
		t.Fatalf("committed port = %d", eng.ctr.committed.ExposedPort)
	}

	// The install command must run after the manifest copies and before
	// the application copy.
	install, appCopy := -1, -1
	copies := 0
	for i, op := range eng.ctr.ops {
		switch {
		case strings.HasPrefix(op, "run pip install"):
			install = i
		case strings.HasPrefix(op, "copy "):
			if copies++; copies == 3 {
				appCopy = i
			}
		}
	}
	if install < 0 || appCopy < 0 {
		t.Fatalf("ops missing install or app copy: %v", eng.ctr.ops)
	}
	if install > appCopy {
		t.Fatalf("install ran after application copy: %v", eng.ctr.ops)
	}
}

func TestRunFailingInstallAbortsBuild(t *testing.T) {
	project := writeBuildProject(t)
	eng := &fakeEngine{ctr: &fakeContainer{failRun: "pip install"}}

	_, err := Run(t.Context(), eng, Options{
		Project: project,
		Tag:     "quiz-service:latest",
		BuildID: "test",
	})
	if !errors.Is(err, ErrBuild) {
		t.Fatalf("err = %v, want ErrBuild", err)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("err = %v, want ErrCommandFailed in chain", err)
	}

	// No image may be committed and no code copied after the failure.
	if eng.ctr.committed != nil {
		t.Fatal("image committed despite failing install")
	}
	copies := 0
	for _, op := range eng.ctr.ops {
		if strings.HasPrefix(op, "copy ") {
			copies++
		}
	}
	if copies != 2 {
		t.Fatalf("copies = %d, want 2 (manifest and metadata only)", copies)
	}
	if !eng.ctr.destroyed {
		t.Fatal("build container leaked after failed build")
	}
}

func TestRunExport(t *testing.T) {
	project := writeBuildProject(t)
	eng := &fakeEngine{ctr: &fakeContainer{}}
	exportDir := filepath.Join(t.TempDir(), "dist")

	result, err := Run(t.Context(), eng, Options{
		Project: project,
		Tag:     "quiz-service:latest",
		BuildID: "test",
		Export:  exportDir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(exportDir, ExportFilename)
	if result.Export != want {
		t.Fatalf("Export = %q, want %q", result.Export, want)
	}
	if len(eng.exported) != 1 || eng.exported[0] != want {
		t.Fatalf("exported = %v", eng.exported)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
}
