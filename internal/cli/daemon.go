package cli

import (
	"context"
	"log/slog"

	"github.com/gantrylabs/gantry/internal"
	"github.com/gantrylabs/gantry/internal/server"
)

// Represents the 'gantry daemon' command.
type DaemonCmd struct{}

// Executes the daemon command.
//
// Opens the configured engine, starts the socket server, and blocks
// until the context is cancelled (e.g. via SIGINT or SIGTERM).
func (c *DaemonCmd) Run(ctx context.Context) error {
	settings, err := internal.LoadSettings()
	if err != nil {
		return err
	}

	eng, err := openEngine(settings)
	if err != nil {
		return err
	}

	socket := RootCmd.Socket
	if socket == "" {
		socket = settings.Socket
	}

	srv := server.New(server.Config{SocketPath: socket}, eng)

	if err := srv.Start(); err != nil {
		eng.Close()
		return err
	}

	slog.Info("gantry daemon is running")

	stopped := make(chan struct{})
	go func() {
		srv.Wait()
		close(stopped)
	}()

	// Exits on a termination signal or when a shutdown command received
	// over the socket stops the server.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case <-stopped:
	}

	return srv.Stop()
}
