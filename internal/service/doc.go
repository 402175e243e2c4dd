// Package service drives the run phase: starting a service container
// from a built image, waiting for it to answer, running the project's
// test suite inside it, and tearing it down.
//
// A service container runs exactly one uvicorn process; its lifecycle
// is the container's lifecycle. Readiness is observed from the outside
// by polling the root endpoint over HTTP until it returns 200 within a
// bounded deadline. Tests run through the engine's exec facility with
// the same interpreter that serves the application, so a passing run
// certifies the image as a whole.
package service
