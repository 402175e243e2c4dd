package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/gantrylabs/gantry/internal"
)

// Represents the root command for the gantry CLI.
var RootCmd struct {
	Quiet   bool   `short:"q" help:"Suppress informational output."`
	Verbose bool   `short:"v" help:"Enable verbose output."`
	Debug   bool   `short:"d" help:"Enable debug output."`
	Socket  string `short:"s" help:"Override the default daemon socket path." placeholder:"PATH"`

	Build      BuildCmd      `cmd:"" help:"Build a container image from a project tree."`
	Up         UpCmd         `cmd:"" help:"Start the service container and wait until it answers."`
	Test       TestCmd       `cmd:"" help:"Run the project's test suite inside the service container."`
	Down       DownCmd       `cmd:"" help:"Stop and remove the service container."`
	Status     StatusCmd     `cmd:"" help:"Show the service container state."`
	Export     ExportCmd     `cmd:"" help:"Write an archive of a built image."`
	Dockerfile DockerfileCmd `cmd:"" help:"Print the canonical Dockerfile for a project."`
	Daemon     DaemonCmd     `cmd:"" help:"Run the gantry daemon."`
	Version    VersionCmd    `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Builds, runs, and tests containerized Python web services."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
//
// Flags override build-time defaults set via linker flags.
func configureLogger() {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          internal.Name,
		ReportTimestamp: verbose,
	})

	switch {
	case debug:
		logger.SetLevel(log.DebugLevel)
		logger.SetReportCaller(true)
	case quiet:
		logger.SetLevel(log.WarnLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	slog.SetDefault(slog.New(logger))
}
