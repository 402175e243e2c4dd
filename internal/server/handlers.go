package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/gantrylabs/gantry/internal"
	"github.com/gantrylabs/gantry/internal/manifest"
	"github.com/gantrylabs/gantry/internal/protocol"
	"github.com/gantrylabs/gantry/internal/recipe"
	"github.com/gantrylabs/gantry/internal/service"
)

// Handles a build command.
//
// Validates the project tree at the requested root and executes the
// bootstrap sequence against the engine.
func (s *Server) handleBuild(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.BuildRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	project, err := manifest.Load(req.Root)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	tag := req.Tag
	if tag == "" {
		tag = recipe.DefaultTag(project.Name())
	}

	result, err := recipe.Run(ctx, s.engine, recipe.Options{
		Project: project,
		Tag:     tag,
		BuildID: ulid.Make().String(),
		Plan: recipe.PlanOptions{
			BaseImage: req.BaseImage,
			Port:      req.Port,
			NoReload:  req.NoReload,
		},
		Export: req.Export,
	})
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()

	s.respond(conn, protocol.CmdOK, &protocol.BuildResult{
		Tag:    result.Tag,
		Export: result.Export,
	})
}

// Handles an up command: starts a service container and waits until it
// answers.
func (s *Server) handleUp(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.UpRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	result, err := service.Up(ctx, s.engine, service.UpOptions{
		Tag:  req.Tag,
		Name: req.Name,
		Port: req.Port,
	})
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, &protocol.UpResult{
		Container: result.Container,
		URL:       result.URL,
	})
}

// Handles a test command: runs the project's test suite inside the
// service container.
func (s *Server) handleTest(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.TestRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	ctr := s.engine.Container(service.ContainerID(req.Name))

	report, err := service.RunTests(ctx, ctr)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, &protocol.TestResult{
		Passed:   report.Passed,
		Failed:   report.Failed,
		Errors:   report.Errors,
		ExitCode: report.ExitCode,
		Output:   report.Output,
	})
}

// Handles a down command.
func (s *Server) handleDown(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.DownRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	if err := service.Down(ctx, s.engine, req.Name); err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, nil)
}

// Handles a container-status command.
func (s *Server) handleContainerStatus(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.ContainerStatusRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	state, err := service.Status(ctx, s.engine, req.Name)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, &protocol.ContainerStatusResult{State: string(state)})
}

// Handles a status command.
func (s *Server) handleStatus(conn net.Conn) {
	s.mu.Lock()
	builds := s.builds
	s.mu.Unlock()

	uptime := time.Since(s.startedAt).Truncate(time.Second)

	s.respond(conn, protocol.CmdOK, &protocol.StatusResult{
		Running: true,
		Version: internal.VersionString(),
		Pid:     os.Getpid(),
		Uptime:  uptime.String(),
		Builds:  builds,
	})
}

// Handles a shutdown command.
func (s *Server) handleShutdown(conn net.Conn) {
	s.respond(conn, protocol.CmdOK, nil)
	slog.Info("shutdown requested")

	go func() {
		s.Stop()
	}()
}
