package moby

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"

	"github.com/gantrylabs/gantry/internal/engine"
	"github.com/gantrylabs/gantry/internal/errx"
)

// A container managed through the Docker Engine API.
type Container struct {
	cli *client.Client // Docker SDK client.
	id  string         // Container name, also used as the lookup key.
}

var _ engine.Container = (*Container)(nil)

// Returns the container's identifier.
func (c *Container) ID() string {
	return c.id
}

// Runs a command inside the container through "shell -c command".
func (c *Container) Exec(ctx context.Context, shell, command string, env []string, workdir string) (*engine.ExecResult, error) {
	return c.exec(ctx, container.ExecOptions{
		Cmd:        []string{shell, "-c", command},
		Env:        env,
		WorkingDir: workdir,
	}, nil)
}

// Runs a command and arguments directly inside the container, without
// shell wrapping.
func (c *Container) ExecArgs(ctx context.Context, args []string) (*engine.ExecResult, error) {
	return c.exec(ctx, container.ExecOptions{Cmd: args}, nil)
}

// Creates a directory inside the container, including parents.
func (c *Container) MkdirAll(ctx context.Context, path string) error {
	res, err := c.ExecArgs(ctx, []string{"mkdir", "-p", path})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return errx.Wrapf(ErrMoby, "mkdir failed with exit code %d (%s)", res.ExitCode, res.Stderr)
	}
	return nil
}

// Copies a tar stream into the container's filesystem.
//
// The contents of r are extracted into destDir by piping them to "tar xf
// - -C destDir" inside the container, the same mechanism used by the
// containerd runtime.
func (c *Container) CopyTo(ctx context.Context, r io.Reader, destDir string) error {
	res, err := c.exec(ctx, container.ExecOptions{
		Cmd: []string{"tar", "xf", "-", "-C", destDir},
	}, r)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return errx.Wrapf(ErrMoby, "tar extract failed with exit code %d (%s)", res.ExitCode, res.Stderr)
	}
	return nil
}

// Creates an exec process, attaches its streams, waits for it to exit,
// and returns the captured output and exit code.
//
// The daemon multiplexes stdout and stderr over a single hijacked
// connection; stdcopy demultiplexes them. When stdin is provided the
// write side of the connection is closed after the reader is exhausted
// so the process receives EOF. A non-zero exit code is not treated as
// an error; the caller decides.
func (c *Container) exec(ctx context.Context, opts container.ExecOptions, stdin io.Reader) (*engine.ExecResult, error) {
	opts.AttachStdout = true
	opts.AttachStderr = true
	opts.AttachStdin = stdin != nil

	created, err := c.cli.ContainerExecCreate(ctx, c.id, opts)
	if err != nil {
		return nil, errx.Wrap(ErrMoby, err)
	}

	attach, err := c.cli.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, errx.Wrap(ErrMoby, err)
	}
	defer attach.Close()

	if stdin != nil {
		go func() {
			io.Copy(attach.Conn, stdin)
			attach.CloseWrite()
		}()
	}

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attach.Reader); err != nil {
		return nil, errx.Wrap(ErrMoby, err)
	}

	inspect, err := c.cli.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return nil, errx.Wrap(ErrMoby, err)
	}

	return &engine.ExecResult{
		ExitCode: inspect.ExitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// Commits the container's filesystem as a new tagged image.
//
// The commit config replaces the entrypoint and clears any inherited
// Cmd so that containers started from the image run the configured
// launch command.
func (c *Container) Commit(ctx context.Context, tag string, cfg engine.ImageConfig) error {
	commitCfg := &container.Config{
		Entrypoint: strslice.StrSlice(cfg.Entrypoint),
		Cmd:        nil,
		Env:        cfg.Env,
		WorkingDir: cfg.WorkingDir,
	}
	if cfg.ExposedPort > 0 {
		commitCfg.ExposedPorts = nat.PortSet{
			nat.Port(cfg.PortKey()): struct{}{},
		}
	}

	if _, err := c.cli.ContainerCommit(ctx, c.id, container.CommitOptions{
		Reference: tag,
		Pause:     true,
		Config:    commitCfg,
	}); err != nil {
		return errx.Wrap(ErrMoby, err)
	}

	slog.Info("image committed", "tag", tag, "container", c.id)
	return nil
}

// Queries the current state of the container.
func (c *Container) Status(ctx context.Context) (engine.State, error) {
	inspect, err := c.cli.ContainerInspect(ctx, c.id)
	if err != nil {
		if client.IsErrNotFound(err) {
			return engine.StateNotCreated, nil
		}
		return "", errx.Wrap(ErrMoby, err)
	}

	if inspect.State != nil && inspect.State.Running {
		return engine.StateRunning, nil
	}
	return engine.StateStopped, nil
}

// Stops the container. Stopping an absent or already-stopped container
// is not an error.
func (c *Container) Stop(ctx context.Context) error {
	if err := c.cli.ContainerStop(ctx, c.id, container.StopOptions{}); err != nil {
		if client.IsErrNotFound(err) {
			return nil
		}
		return errx.Wrap(ErrMoby, err)
	}
	return nil
}

// Removes the container and its volumes. After destruction the handle
// is invalid.
func (c *Container) Destroy(ctx context.Context) {
	if err := c.cli.ContainerRemove(ctx, c.id, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	}); err != nil && !client.IsErrNotFound(err) {
		slog.Warn("failed to remove container", "id", c.id, "error", err)
	}
}

// Removes an existing container with this name, if one exists.
func (c *Container) remove(ctx context.Context) {
	err := c.cli.ContainerRemove(ctx, c.id, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	})
	if err != nil && !client.IsErrNotFound(err) {
		slog.Debug("stale container cleanup", "id", c.id, "error", err)
	}
}
