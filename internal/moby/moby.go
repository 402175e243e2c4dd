package moby

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/gantrylabs/gantry/internal/engine"
	"github.com/gantrylabs/gantry/internal/errx"
)

// Docker-backed implementation of [engine.Engine].
type Engine struct {
	cli *client.Client // Docker SDK client.
}

var _ engine.Engine = (*Engine)(nil)

// Creates an engine connected to the Docker daemon.
//
// The connection is configured from the environment (DOCKER_HOST and
// friends) and the API version is negotiated with the daemon so the
// client works across daemon releases.
func New() (*Engine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errx.Wrap(ErrMoby, err)
	}
	return &Engine{cli: cli}, nil
}

// Closes the client connection.
func (e *Engine) Close() error {
	return e.cli.Close()
}

// Pulls an image from its registry.
//
// The daemon streams pull progress as JSON messages; the stream must be
// drained for the pull to complete.
func (e *Engine) Pull(ctx context.Context, ref string) error {
	rc, err := e.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return errx.Wrap(ErrMoby, err)
	}
	defer rc.Close()

	if _, err := io.Copy(io.Discard, rc); err != nil {
		return errx.Wrap(ErrMoby, err)
	}

	slog.Debug("image pulled", "ref", ref)
	return nil
}

// Creates and starts an idle build container from a pulled image.
//
// The entrypoint is overridden with a long sleep so that the container
// stays up between exec calls. Any existing container with the same
// name is removed first.
func (e *Engine) CreateBuild(ctx context.Context, img, id string) (engine.Container, error) {
	c := &Container{cli: e.cli, id: id}
	c.remove(ctx)

	cfg := &container.Config{
		Image:      img,
		Entrypoint: strslice.StrSlice{"sleep", "infinity"},
	}

	if _, err := e.cli.ContainerCreate(ctx, cfg, nil, nil, nil, id); err != nil {
		return nil, errx.Wrap(ErrMoby, err)
	}

	if err := e.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		c.remove(ctx)
		return nil, errx.Wrap(ErrMoby, err)
	}

	slog.Debug("build container started", "id", id, "image", img)
	return c, nil
}

// Starts a service container from a committed image.
//
// The image's entrypoint runs unless opts.Command overrides it. The host
// port is bound to the port the image declares, so the service is
// reachable at localhost:<opts.Port> even when that differs from the
// build-time listen port.
func (e *Engine) Serve(ctx context.Context, opts engine.ServeOptions) (engine.Container, error) {
	c := &Container{cli: e.cli, id: opts.Name}
	c.remove(ctx)

	cfg := &container.Config{Image: opts.Image}
	if len(opts.Command) > 0 {
		cfg.Entrypoint = strslice.StrSlice(opts.Command)
	}

	host := &container.HostConfig{}
	if opts.Port > 0 {
		port, err := e.imagePort(ctx, opts.Image)
		if err != nil {
			return nil, err
		}
		cfg.ExposedPorts = nat.PortSet{port: struct{}{}}
		host.PortBindings = portBindings(port, opts.Port)
	}

	if _, err := e.cli.ContainerCreate(ctx, cfg, host, nil, nil, opts.Name); err != nil {
		return nil, errx.Wrap(ErrMoby, err)
	}

	if err := e.cli.ContainerStart(ctx, opts.Name, container.StartOptions{}); err != nil {
		c.remove(ctx)
		return nil, errx.Wrap(ErrMoby, err)
	}

	slog.Debug("service container started", "id", opts.Name, "image", opts.Image, "port", opts.Port)
	return c, nil
}

// Resolves the container-side tcp port an image declares.
//
// Committed images carry their listen port in ExposedPorts; the binding
// must target that port, not the host port chosen at run time.
func (e *Engine) imagePort(ctx context.Context, img string) (nat.Port, error) {
	info, _, err := e.cli.ImageInspectWithRaw(ctx, img)
	if err != nil {
		return "", errx.Wrap(ErrMoby, err)
	}

	if info.Config != nil {
		for p := range info.Config.ExposedPorts {
			if p.Proto() == "tcp" {
				return p, nil
			}
		}
	}

	return "", errx.Wrapf(ErrMoby, "image %s declares no tcp port", img)
}

// Publishes a container port on the given host port on all interfaces.
func portBindings(port nat.Port, hostPort int) nat.PortMap {
	return nat.PortMap{
		port: []nat.PortBinding{
			{HostIP: "0.0.0.0", HostPort: strconv.Itoa(hostPort)},
		},
	}
}

// Returns a handle for an existing container.
func (e *Engine) Container(id string) engine.Container {
	return &Container{cli: e.cli, id: id}
}

// Writes a tagged image to a tar archive at the given path.
func (e *Engine) Export(ctx context.Context, tag, path string) error {
	rc, err := e.cli.ImageSave(ctx, []string{tag})
	if err != nil {
		return errx.Wrap(ErrMoby, err)
	}
	defer rc.Close()

	f, err := os.Create(path)
	if err != nil {
		return errx.Wrap(ErrMoby, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return errx.Wrap(ErrMoby, err)
	}

	slog.Debug("image exported", "tag", tag, "path", path)
	return nil
}
