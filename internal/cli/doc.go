// Package cli defines the gantry command surface.
//
// The CLI covers the whole lifecycle of a containerized Python web
// service: build an image from a project tree (local or cloned from
// git), start the service container and wait for readiness, run the
// in-container test suite, inspect and tear down the container, print
// the canonical Dockerfile, and run the socket daemon.
//
// Global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//	-s, --socket    Daemon socket path.
//
// Flags override build-time defaults set via linker flags and GANTRY_*
// environment settings. After parsing, the global logger is
// reconfigured to reflect the final level before the command runs.
package cli
