package runtime

import (
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"strconv"
	"strings"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/core/images/archive"
	"github.com/containerd/platforms"

	"github.com/gantrylabs/gantry/internal/engine"
	"github.com/gantrylabs/gantry/internal/errx"
)

const (

	// Snapshotter used for container filesystems. fuse-overlayfs provides
	// overlay semantics without requiring root privileges (no mount(2)),
	// allowing gantry to run as a regular user.
	snapshotter = "fuse-overlayfs"

	// OCI runtime shim for running containers.
	ociRuntime = "io.containerd.runc.v2"
)

// Containerd-backed implementation of [engine.Engine].
type Runtime struct {
	client *containerd.Client // Containerd client for managing containers and images.
}

var _ engine.Engine = (*Runtime)(nil)

// Creates a runtime connected to the containerd socket at the given address.
//
// The namespace scopes all containerd operations to a single tenant. The
// runtime must be closed when no longer needed.
func New(address, namespace string) (*Runtime, error) {
	client, err := containerd.New(address, containerd.WithDefaultNamespace(namespace))
	if err != nil {
		return nil, errx.Wrap(ErrRuntime, err)
	}
	return &Runtime{client: client}, nil
}

// Closes the containerd client connection.
func (rt *Runtime) Close() error {
	return rt.client.Close()
}

// Pulls an image from its registry and unpacks it for the host platform.
//
// The layers are fetched into the content store and unpacked into the
// snapshotter so that containers can be created without further network
// access. Pulling an already-present image is cheap; containerd skips
// blobs it has.
func (rt *Runtime) Pull(ctx context.Context, ref string) error {
	p, err := platforms.Parse(defaultPlatform())
	if err != nil {
		return errx.Wrap(ErrRuntime, err)
	}

	_, err = rt.client.Pull(ctx, ref,
		containerd.WithPullUnpack,
		containerd.WithPullSnapshotter(snapshotter),
		containerd.WithPlatformMatcher(platforms.Only(p)),
	)
	if err != nil {
		return errx.Wrap(ErrRuntime, err)
	}

	slog.Debug("image pulled", "ref", ref)
	return nil
}

// Creates and starts an idle build container from a pulled image.
//
// A long-running task (sleep infinity) is started so that subsequent Exec
// calls have a running process to attach to. Any existing container with
// the same ID is removed before the new one is created.
func (rt *Runtime) CreateBuild(ctx context.Context, image, id string) (engine.Container, error) {
	return rt.start(ctx, image, id, []string{"sleep", "infinity"})
}

// Starts a service container from a committed image.
//
// The container shares the host network namespace, so the image's
// entrypoint binds its declared port on the host directly. Host
// networking cannot remap ports; a request for a host port other than
// the declared one is rejected rather than left to time out against a
// port nothing listens on. opts.Command overrides the entrypoint when
// non-empty.
func (rt *Runtime) Serve(ctx context.Context, opts engine.ServeOptions) (engine.Container, error) {
	if opts.Port > 0 {
		declared, err := rt.imagePort(ctx, opts.Image)
		if err != nil {
			return nil, err
		}
		if declared != 0 && declared != opts.Port {
			return nil, errx.Wrapf(ErrRuntime,
				"image %s listens on port %d and host networking cannot remap it to %d",
				opts.Image, declared, opts.Port)
		}
	}

	return rt.start(ctx, opts.Image, opts.Name, opts.Command)
}

// Reads the declared tcp listen port from an image's config. Returns
// zero when the image declares no port.
func (rt *Runtime) imagePort(ctx context.Context, tag string) (int, error) {
	img, err := rt.resolveImage(ctx, tag, defaultPlatform())
	if err != nil {
		return 0, errx.Wrap(ErrRuntime, err)
	}

	spec, err := img.Spec(ctx)
	if err != nil {
		return 0, errx.Wrap(ErrRuntime, err)
	}

	return declaredPort(spec.Config.ExposedPorts), nil
}

// Extracts the first tcp port from an OCI exposed-ports set.
func declaredPort(ports map[string]struct{}) int {
	for key := range ports {
		port, proto, ok := strings.Cut(key, "/")
		if ok && proto != "tcp" {
			continue
		}
		if n, err := strconv.Atoi(port); err == nil {
			return n
		}
	}
	return 0
}

// Starts a container from a pulled or committed image tag.
//
// Any stale container with the same ID is cleaned up first. When args is
// empty the image's own entrypoint runs as the task.
func (rt *Runtime) start(ctx context.Context, tag, id string, args []string) (*Container, error) {
	platform := defaultPlatform()

	c := &Container{
		client:   rt.client,
		id:       id,
		platform: platform,
	}

	// Remove any stale container from a previous run with the same ID.
	c.remove(ctx)

	image, err := rt.resolveImage(ctx, tag, platform)
	if err != nil {
		return nil, errx.Wrap(ErrRuntime, err)
	}

	ctr, err := c.create(ctx, image, args)
	if err != nil {
		return nil, errx.Wrap(ErrRuntime, err)
	}

	if err := c.startTask(ctx, ctr); err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, errx.Wrap(ErrRuntime, err)
	}

	slog.Debug("container started", "id", id, "image", tag)

	return c, nil
}

// Returns a handle for an existing container.
//
// The container is not loaded or verified; the handle is a lightweight
// reference that resolves the container lazily on subsequent calls.
func (rt *Runtime) Container(id string) engine.Container {
	return &Container{
		client:   rt.client,
		id:       id,
		platform: defaultPlatform(),
	}
}

// Writes a tagged image to an OCI archive at the given path.
func (rt *Runtime) Export(ctx context.Context, tag, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errx.Wrap(ErrRuntime, err)
	}
	defer f.Close()

	p, err := platforms.Parse(defaultPlatform())
	if err != nil {
		return errx.Wrap(ErrRuntime, err)
	}

	err = rt.client.Export(ctx, f,
		archive.WithImage(rt.client.ImageService(), tag),
		archive.WithPlatform(platforms.Only(p)),
	)
	if err != nil {
		return errx.Wrap(ErrRuntime, err)
	}

	slog.Debug("image exported", "tag", tag, "path", path)
	return nil
}

// Looks up a tagged image and selects the manifest for the given platform.
//
// Multi-platform images contain manifests for multiple architectures. This
// method selects one, so that subsequent operations target the correct
// architecture.
func (rt *Runtime) resolveImage(ctx context.Context, tag, platform string) (containerd.Image, error) {
	p, err := platforms.Parse(platform)
	if err != nil {
		return nil, err
	}

	img, err := rt.client.ImageService().Get(ctx, tag)
	if err != nil {
		return nil, err
	}

	return containerd.NewImageWithPlatform(rt.client, img, platforms.Only(p)), nil
}

// Returns the default OCI platform for the host architecture.
func defaultPlatform() string {
	return "linux/" + goruntime.GOARCH
}
