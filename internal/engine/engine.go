package engine

import (
	"context"
	"fmt"
	"io"
)

// State of a container as reported by the engine.
type State string

const (
	StateRunning    State = "running"
	StateStopped    State = "stopped"
	StateNotCreated State = "not-created"
)

// Output of a command execution inside a container.
type ExecResult struct {
	ExitCode int    // Exit code of the process.
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
}

// Image configuration applied when a build container is committed.
type ImageConfig struct {
	Entrypoint  []string // Process launched when a container starts from the image.
	Env         []string // Environment entries ("KEY=value") baked into the image.
	WorkingDir  string   // Working directory for the entrypoint process.
	ExposedPort int      // Declared listen port (metadata; does not bind).
}

// Returns the OCI exposed-ports key for the declared port (e.g. "8000/tcp").
func (c ImageConfig) PortKey() string {
	return fmt.Sprintf("%d/tcp", c.ExposedPort)
}

// Options for starting a service container.
type ServeOptions struct {
	Image   string   // Image tag to start from.
	Name    string   // Container name; also used as the engine container ID.
	Port    int      // Host port forwarded to the container's declared port.
	Command []string // Overrides the image entrypoint when non-empty.
}

// A container engine capable of executing gantry's build and run phases.
//
// Implementations must be safe for sequential use; gantry never issues
// concurrent operations against a single engine.
type Engine interface {

	// Pulls the image so that containers can be created from it.
	Pull(ctx context.Context, ref string) error

	// Creates and starts an idle build container from the given image.
	// The container runs a long-lived no-op process so that subsequent
	// Exec calls have a running target.
	CreateBuild(ctx context.Context, image, id string) (Container, error)

	// Starts a service container running the image entrypoint, with the
	// declared port reachable on the host.
	Serve(ctx context.Context, opts ServeOptions) (Container, error)

	// Returns a handle for an existing container. The container is not
	// verified; it resolves lazily on subsequent calls.
	Container(id string) Container

	// Writes the tagged image to an OCI/docker archive at path.
	Export(ctx context.Context, tag, path string) error

	// Releases the engine's client connection.
	Close() error
}

// A single container managed by an [Engine].
type Container interface {

	// Returns the engine container ID.
	ID() string

	// Runs a command via "shell -c command" with env and workdir
	// overriding the container defaults for this execution only.
	// A non-zero exit code is reported in the result, not as an error.
	Exec(ctx context.Context, shell, command string, env []string, workdir string) (*ExecResult, error)

	// Runs a command and arguments directly, without shell wrapping.
	ExecArgs(ctx context.Context, args []string) (*ExecResult, error)

	// Creates a directory inside the container, including parents.
	MkdirAll(ctx context.Context, path string) error

	// Extracts a tar stream into destDir inside the container.
	CopyTo(ctx context.Context, r io.Reader, destDir string) error

	// Commits the container's filesystem as a new image under tag,
	// applying the image configuration. The container must be stopped.
	Commit(ctx context.Context, tag string, cfg ImageConfig) error

	// Queries the current state of the container.
	Status(ctx context.Context) (State, error)

	// Stops the container's process. Stopping an already-stopped
	// container is not an error.
	Stop(ctx context.Context) error

	// Removes the container and its resources. Best-effort; failures
	// are logged, not returned.
	Destroy(ctx context.Context)
}
