package internal

import (
	"strconv"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/gantrylabs/gantry/internal/errx"
)

var (
	quietMode   atomic.Bool // Indicates whether quiet mode is enabled.
	debugMode   atomic.Bool // Indicates whether debug logging is enabled.
	verboseMode atomic.Bool // Indicates whether verbose logging is enabled.
)

// Parses the linker flags into usable runtime variables.
//
// The rawQuiet, rawDebug, and rawVerbose variables should be set via ldflags
// during the build process. If not set, they default to "false".
func init() {
	if v, err := strconv.ParseBool(rawQuiet); err == nil {
		quietMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawDebug); err == nil {
		debugMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawVerbose); err == nil {
		verboseMode.Store(v)
	}
}

// Enables or disables quiet mode.
func SetQuiet(enabled bool) {
	quietMode.Store(enabled)
}

// Returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode.Load()
}

// Enables or disables debug mode.
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
}

// Returns true if debug mode is enabled.
func IsDebug() bool {
	return debugMode.Load()
}

// Enables or disables verbose logging.
func SetVerbose(enabled bool) {
	verboseMode.Store(enabled)
}

// Returns true if verbose logging is enabled.
func IsVerbose() bool {
	return verboseMode.Load()
}

// Engine names accepted by [Settings.Engine].
const (
	EngineContainerd = "containerd"
	EngineDocker     = "docker"
)

// Environment-driven settings shared by the CLI and the daemon.
//
// Every field can be set through a GANTRY_* environment variable
// (e.g. GANTRY_ENGINE, GANTRY_BASE_IMAGE). CLI flags take precedence
// over the environment.
type Settings struct {
	Engine              string `default:"containerd" desc:"Container engine backend (containerd or docker)."`
	ContainerdAddress   string `split_words:"true" default:"/run/containerd/containerd.sock" desc:"Containerd socket address."`
	ContainerdNamespace string `split_words:"true" default:"gantry" desc:"Containerd namespace for images and containers."`
	BaseImage           string `split_words:"true" default:"docker.io/library/python:3.11-slim" desc:"Base image for service builds."`
	Port                int    `default:"8000" desc:"Port the service binds and the image exposes."`
	Socket              string `desc:"Override for the daemon Unix socket path."`
}

// Loads settings from GANTRY_* environment variables, applying defaults
// for anything unset.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(Name, &s); err != nil {
		return nil, errx.Wrap(ErrSettings, err)
	}
	if s.Engine != EngineContainerd && s.Engine != EngineDocker {
		return nil, errx.Wrapf(ErrSettings, "unknown engine %q", s.Engine)
	}
	if s.Port <= 0 || s.Port > 65535 {
		return nil, errx.Wrapf(ErrSettings, "port %d out of range", s.Port)
	}
	return &s, nil
}
