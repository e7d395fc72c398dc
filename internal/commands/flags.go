// Package commands implements the planit CLI subcommands. The commands
// are a thin shell: they parse arguments, call into the galaxy core, and
// render results; all domain logic lives in internal/core.
package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/jlong/planit/internal/core/config"
)

// Flags holds the global flag values shared by every subcommand.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// StorePath points directly at a galaxy store file. When empty,
	// commands locate the store by walking up from the working directory.
	StorePath string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "planit", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "planit")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/planit/planit.log
// On Linux: $XDG_STATE_HOME/planit/planit.log (defaults to ~/.local/state/planit/planit.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "planit", "planit.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "planit", "planit.log")
	}

	return filepath.Join(home, ".local", "state", "planit", "planit.log")
}
