package recipe

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func planRecipe(t *testing.T, opts PlanOptions) *Recipe {
	t.Helper()
	r, err := Plan(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func TestPlanDefaults(t *testing.T) {
	r := planRecipe(t, PlanOptions{})

	if r.BaseImage != DefaultBaseImage {
		t.Fatalf("BaseImage = %q, want %q", r.BaseImage, DefaultBaseImage)
	}
	if r.Workdir != DefaultWorkdir {
		t.Fatalf("Workdir = %q, want %q", r.Workdir, DefaultWorkdir)
	}
	if r.Port != DefaultPort {
		t.Fatalf("Port = %d, want %d", r.Port, DefaultPort)
	}
	if !r.Reload {
		t.Fatal("Reload = false, want true by default")
	}

	want := []string{"uvicorn", "app.main:app", "--host", "0.0.0.0", "--port", "8000", "--reload"}
	if !reflect.DeepEqual(r.Entrypoint, want) {
		t.Fatalf("Entrypoint = %v, want %v", r.Entrypoint, want)
	}

	if r.Env["PYTHONDONTWRITEBYTECODE"] != "1" || r.Env["PYTHONUNBUFFERED"] != "1" {
		t.Fatalf("Env = %v, want interpreter flags set", r.Env)
	}
}

func TestPlanOrdering(t *testing.T) {
	r := planRecipe(t, PlanOptions{})

	// Install must come after the manifest copies and before the
	// application and test copies.
	var order []string
	for _, step := range r.Steps {
		switch {
		case step.Run != "":
			order = append(order, "install")
		case strings.HasPrefix(step.Copy, "requirements.txt"):
			order = append(order, "manifest")
		case strings.HasPrefix(step.Copy, "pyproject.toml"):
			order = append(order, "metadata")
		case strings.HasPrefix(step.Copy, "app"):
			order = append(order, "app")
		case strings.HasPrefix(step.Copy, "tests"):
			order = append(order, "tests")
		}
	}

	want := []string{"manifest", "metadata", "install", "app", "tests"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("step order = %v, want %v", order, want)
	}
}

func TestPlanOverrides(t *testing.T) {
	r := planRecipe(t, PlanOptions{
		BaseImage: "python:3.12-slim",
		Port:      9000,
		NoReload:  true,
	})

	if r.BaseImage != "python:3.12-slim" {
		t.Fatalf("BaseImage = %q", r.BaseImage)
	}
	if r.Port != 9000 {
		t.Fatalf("Port = %d, want 9000", r.Port)
	}
	for _, arg := range r.Entrypoint {
		if arg == "--reload" {
			t.Fatal("entrypoint contains --reload with NoReload set")
		}
	}

	bound, ok := entrypointPort(r.Entrypoint)
	if !ok || bound != 9000 {
		t.Fatalf("entrypointPort = %d, %v, want 9000, true", bound, ok)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	a := planRecipe(t, PlanOptions{})
	b := planRecipe(t, PlanOptions{})

	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different recipes")
	}
	if !reflect.DeepEqual(a.ImageConfig(), b.ImageConfig()) {
		t.Fatal("identical recipes produced different image configs")
	}
}

func TestValidatePortMismatch(t *testing.T) {
	r := planRecipe(t, PlanOptions{})
	r.Port = 9000 // entrypoint still binds 8000

	if err := r.Validate(); !errors.Is(err, ErrRecipe) {
		t.Fatalf("err = %v, want ErrRecipe", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Recipe)
	}{
		{
			name:   "empty base image",
			mutate: func(r *Recipe) { r.BaseImage = "" },
		},
		{
			name:   "relative workdir",
			mutate: func(r *Recipe) { r.Workdir = "code" },
		},
		{
			name:   "port out of range",
			mutate: func(r *Recipe) { r.Port = 0 },
		},
		{
			name:   "missing entrypoint",
			mutate: func(r *Recipe) { r.Entrypoint = nil },
		},
		{
			name:   "entrypoint without port",
			mutate: func(r *Recipe) { r.Entrypoint = []string{"uvicorn", "app.main:app"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := planRecipe(t, PlanOptions{})
			tt.mutate(r)
			if err := r.Validate(); !errors.Is(err, ErrRecipe) {
				t.Fatalf("err = %v, want ErrRecipe", err)
			}
		})
	}
}

func TestImageConfig(t *testing.T) {
	r := planRecipe(t, PlanOptions{})
	cfg := r.ImageConfig()

	wantEnv := []string{"PYTHONDONTWRITEBYTECODE=1", "PYTHONUNBUFFERED=1"}
	if !reflect.DeepEqual(cfg.Env, wantEnv) {
		t.Fatalf("Env = %v, want %v (sorted)", cfg.Env, wantEnv)
	}
	if cfg.WorkingDir != DefaultWorkdir {
		t.Fatalf("WorkingDir = %q, want %q", cfg.WorkingDir, DefaultWorkdir)
	}
	if cfg.ExposedPort != DefaultPort {
		t.Fatalf("ExposedPort = %d, want %d", cfg.ExposedPort, DefaultPort)
	}
	if cfg.PortKey() != "8000/tcp" {
		t.Fatalf("PortKey() = %q, want 8000/tcp", cfg.PortKey())
	}
}
