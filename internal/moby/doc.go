// Package moby implements the container engine on the Docker Engine API.
//
// An [Engine] talks to a Docker daemon through the official SDK client
// and satisfies [engine.Engine]. It mirrors the containerd runtime:
// build containers idle on a sleep process and receive commands via
// exec, service containers publish the image's declared port on the
// host, and committing produces a tagged image whose config carries the
// entrypoint, environment, working directory, and exposed port.
//
// The engine is selected with GANTRY_ENGINE=docker and connects using
// the standard DOCKER_HOST environment, so it works against a local
// daemon, a remote daemon, or a rootless socket without extra
// configuration.
package moby
