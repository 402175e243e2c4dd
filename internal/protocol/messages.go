package protocol

// Asks the daemon to build an image from a project tree.
type BuildRequest struct {
	Root      string `json:"root"`                 // Project root directory on the daemon host.
	Tag       string `json:"tag"`                  // Tag for the committed image.
	BaseImage string `json:"base_image,omitempty"` // Base image override.
	Port      int    `json:"port,omitempty"`       // Port override.
	NoReload  bool   `json:"no_reload,omitempty"`  // Disable reload-on-change in the launch command.
	Export    string `json:"export,omitempty"`     // Directory for an exported archive.
}

type BuildResult struct {
	Tag    string `json:"tag"`              // Tag of the committed image.
	Export string `json:"export,omitempty"` // Path of the exported archive, if any.
}

// Asks the daemon to start a service container and wait for readiness.
type UpRequest struct {
	Tag  string `json:"tag"`            // Image tag to run.
	Name string `json:"name"`           // Logical service name.
	Port int    `json:"port,omitempty"` // Host port override.
}

type UpResult struct {
	Container string `json:"container"` // ID of the running container.
	URL       string `json:"url"`       // Base URL the service answers on.
}

// Asks the daemon to run the test suite inside a service container.
type TestRequest struct {
	Name string `json:"name"` // Logical service name.
}

type TestResult struct {
	Passed   int    `json:"passed"`
	Failed   int    `json:"failed"`
	Errors   int    `json:"errors"`
	ExitCode int    `json:"exit_code"`
	Output   string `json:"output"`
}

// Asks the daemon to stop and destroy a service container.
type DownRequest struct {
	Name string `json:"name"` // Logical service name.
}

// Asks the daemon for a service container's state.
type ContainerStatusRequest struct {
	Name string `json:"name"` // Logical service name.
}

type ContainerStatusResult struct {
	State string `json:"state"` // running, stopped, or not-created.
}

// Daemon liveness and counters.
type StatusResult struct {
	Running bool   `json:"running"`
	Version string `json:"version"`
	Pid     int    `json:"pid"`
	Uptime  string `json:"uptime"`
	Builds  int    `json:"builds"`
}

// Carried by CmdError responses.
type ErrorResult struct {
	Message string `json:"message"`
}
