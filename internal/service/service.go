package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gantrylabs/gantry/internal/engine"
	"github.com/gantrylabs/gantry/internal/errx"
)

const (

	// Listen port used when none is configured.
	DefaultPort = 8000

	// How long a freshly started container gets to answer its first
	// successful probe. Covers a cold uvicorn start plus import time.
	DefaultReadyTimeout = 60 * time.Second
)

// Returns the service container ID for a logical service name.
func ContainerID(name string) string {
	return "gantry-run-" + name
}

// Controls service startup.
type UpOptions struct {
	Tag          string        // Image tag to run.
	Name         string        // Logical service name, used in the container ID.
	Port         int           // Host port the service answers on. Zero uses [DefaultPort].
	ReadyTimeout time.Duration // Probe deadline. Zero uses [DefaultReadyTimeout].
}

// Returned after a service is up and answering.
type UpResult struct {
	Container string // ID of the running container.
	URL       string // Base URL the service answers on.
}

// Starts a service container and waits until it answers.
//
// The container is started from the tag with the image's entrypoint and
// the port published on the host. The root endpoint is then polled until
// it returns HTTP 200. A container that never becomes ready is stopped
// and destroyed before the error is returned, so a failed Up leaves
// nothing running.
func Up(ctx context.Context, eng engine.Engine, opts UpOptions) (*UpResult, error) {
	port := opts.Port
	if port == 0 {
		port = DefaultPort
	}
	timeout := opts.ReadyTimeout
	if timeout == 0 {
		timeout = DefaultReadyTimeout
	}

	ctr, err := eng.Serve(ctx, engine.ServeOptions{
		Image: opts.Tag,
		Name:  ContainerID(opts.Name),
		Port:  port,
	})
	if err != nil {
		return nil, errx.Wrap(ErrService, err)
	}

	url := fmt.Sprintf("http://127.0.0.1:%d/", port)

	if err := WaitReady(ctx, url, timeout); err != nil {
		ctr.Stop(ctx)
		ctr.Destroy(ctx)
		return nil, err
	}

	slog.Info("service ready", "container", ctr.ID(), "url", url)

	return &UpResult{
		Container: ctr.ID(),
		URL:       url,
	}, nil
}

// Stops and destroys the service container. Absent containers are
// tolerated so down is idempotent.
func Down(ctx context.Context, eng engine.Engine, name string) error {
	ctr := eng.Container(ContainerID(name))

	if err := ctr.Stop(ctx); err != nil {
		return errx.Wrap(ErrService, err)
	}
	ctr.Destroy(ctx)

	slog.Info("service stopped", "container", ctr.ID())
	return nil
}

// Reports the state of the service container.
func Status(ctx context.Context, eng engine.Engine, name string) (engine.State, error) {
	state, err := eng.Container(ContainerID(name)).Status(ctx)
	if err != nil {
		return "", errx.Wrap(ErrService, err)
	}
	return state, nil
}
