// Package paths provides the config and data file locations for autoflow.
//
// Layout:
//   - Config: ~/.config/autoflow/config.yaml (Unix), %LOCALAPPDATA%\autoflow (Windows)
//   - Data:   ~/.local/share/autoflow (Unix), %LOCALAPPDATA%\autoflow (Windows)
//
// AUTOFLOW_CONFIG_DIR and AUTOFLOW_DATA_DIR override the respective directory.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// File names under the data directory. Exported so callers honoring
// a configured data-dir override can join them against their own
// root.
const (
	IndexName    = "index.json"
	RegistryName = "autorun.json"
	ErrorLogName = "errors.log"
	HistoryName  = "history.db"
)

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() string {
	if dir := os.Getenv("AUTOFLOW_CONFIG_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(windowsAppData(), "autoflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "autoflow")
}

// DataDir returns the directory holding autoflow's persisted state:
// the embedding index, the autorun registry, the error log and run history.
func DataDir() string {
	if dir := os.Getenv("AUTOFLOW_DATA_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(windowsAppData(), "autoflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "autoflow")
}

func windowsAppData() string {
	if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "AppData", "Local")
}

// ConfigFile returns the path to the main config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// IndexFile returns the path to the persisted embedding index.
func IndexFile() string {
	return filepath.Join(DataDir(), IndexName)
}

// RegistryFile returns the path to the autorun registry.
func RegistryFile() string {
	return filepath.Join(DataDir(), RegistryName)
}

// ErrorLogFile returns the path to the append-only error log.
func ErrorLogFile() string {
	return filepath.Join(DataDir(), ErrorLogName)
}

// HistoryFile returns the path to the run history database.
func HistoryFile() string {
	return filepath.Join(DataDir(), HistoryName)
}
