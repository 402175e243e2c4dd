package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "gantry"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for runtime files (sockets, PIDs).
//
//	Linux:   $XDG_RUNTIME_DIR/gantry or /run/user/<uid>/gantry
//	macOS:   ~/Library/Caches/gantry/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, toolName)
	}
	return filepath.Join(xdg.CacheHome, toolName, "run")
}

// Default path to the Unix domain socket for CLI-to-daemon communication.
//
//	Linux:   $XDG_RUNTIME_DIR/gantry/gantry.sock
//	macOS:   ~/Library/Caches/gantry/run/gantry.sock
func Socket() string {
	return filepath.Join(Runtime(), toolName+".sock")
}

// Default path to the PID file.
//
//	Linux:   $XDG_RUNTIME_DIR/gantry/gantry.pid
//	macOS:   ~/Library/Caches/gantry/run/gantry.pid
func PIDFile() string {
	return filepath.Join(Runtime(), toolName+".pid")
}

// Path to the directory for persistent data (exported image archives).
//
//	Linux:   ~/.local/share/gantry
//	macOS:   ~/Library/Application Support/gantry
func Data() string {
	return filepath.Join(xdg.DataHome, toolName)
}

// Default directory for exported image archives.
func Exports() string {
	return filepath.Join(Data(), "exports")
}
