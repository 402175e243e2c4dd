// Package engine defines the container engine abstraction.
//
// Gantry drives two phases against a container engine: a build phase,
// where an idle container created from a base image has files copied in
// and commands executed before being committed as a new image, and a run
// phase, where a service container is started from a committed image
// with its declared port reachable on the host.
//
// Two implementations exist: the runtime package (containerd) and the
// moby package (Docker Engine API). Callers select one via configuration
// and interact only with [Engine] and [Container], so the business logic
// never depends on a specific engine.
package engine
