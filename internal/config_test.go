package internal

import (
	"errors"
	"testing"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Engine != EngineContainerd {
		t.Fatalf("Engine = %q, want %q", s.Engine, EngineContainerd)
	}
	if s.ContainerdNamespace != "gantry" {
		t.Fatalf("ContainerdNamespace = %q, want gantry", s.ContainerdNamespace)
	}
	if s.BaseImage != "docker.io/library/python:3.11-slim" {
		t.Fatalf("BaseImage = %q", s.BaseImage)
	}
	if s.Port != 8000 {
		t.Fatalf("Port = %d, want 8000", s.Port)
	}
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("GANTRY_ENGINE", "docker")
	t.Setenv("GANTRY_PORT", "9000")
	t.Setenv("GANTRY_BASE_IMAGE", "python:3.12-slim")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Engine != EngineDocker {
		t.Fatalf("Engine = %q, want docker", s.Engine)
	}
	if s.Port != 9000 {
		t.Fatalf("Port = %d, want 9000", s.Port)
	}
	if s.BaseImage != "python:3.12-slim" {
		t.Fatalf("BaseImage = %q", s.BaseImage)
	}
}

func TestLoadSettingsRejectsUnknownEngine(t *testing.T) {
	t.Setenv("GANTRY_ENGINE", "podman")

	if _, err := LoadSettings(); !errors.Is(err, ErrSettings) {
		t.Fatalf("err = %v, want ErrSettings", err)
	}
}

func TestLoadSettingsRejectsBadPort(t *testing.T) {
	t.Setenv("GANTRY_PORT", "70000")

	if _, err := LoadSettings(); !errors.Is(err, ErrSettings) {
		t.Fatalf("err = %v, want ErrSettings", err)
	}
}
