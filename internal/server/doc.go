// Package server implements the gantry daemon.
//
// The daemon listens on a Unix domain socket for JSON-encoded commands
// from the gantry CLI. Each connection carries a single request-response
// exchange: the client sends a newline-delimited JSON envelope, the
// server dispatches the command, and writes the result back before
// closing the connection.
//
// Supported commands cover the full lifecycle: building an image from a
// project tree, starting the service container, running the in-container
// test suite, tearing the service down, and querying daemon status.
// Builds are delegated to the recipe package and the run phase to the
// service package, both driving the engine the daemon was constructed
// with.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "gantry")
//	if err != nil {
//	    return err
//	}
//
//	srv := server.New(server.Config{}, rt)
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop()
//
//	srv.Wait()
package server
