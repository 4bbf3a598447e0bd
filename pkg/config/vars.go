package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "hsrc"

	// DefaultArchiveURL is the HydroClient archive of WaterOneFlow
	// responses.
	DefaultArchiveURL = "http://qa-hiswebclient.azurewebsites.net/" +
		"CUAHSI/HydroClient/WaterOneFlowArchive"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/hsrc by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/hsrc/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// WorkspaceDir returns the default root of user workspaces.
// Returns ~/.local/share/hsrc/workspaces by default.
func WorkspaceDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "workspaces")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/hsrc/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
