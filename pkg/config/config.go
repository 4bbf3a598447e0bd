// Package config provides configuration management for hsrc.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Workspace: dir
//   - Fetch: archive_url, raw_soap_providers, max_retries, timeout
//   - ODM2: keep_last_value, link_inserted_dataset
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use HSRC_ prefix with underscores for nesting:
//
//	HSRC_WORKSPACE_DIR=/srv/hsrc/workspaces
//	HSRC_FETCH_TIMEOUT=60
//	HSRC_ODM2_KEEP_LAST_VALUE=true
//	HSRC_LOG_LEVEL=debug
//	HSRC_JOBS_NUMBER=4
package config

import (
	"runtime"
)

// Config represents the complete hsrc configuration.
type Config struct {
	// Workspace determines where per-user directories with input reference
	// files and generated artifacts reside.
	Workspace WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`

	// Fetch contains settings for downloading WaterML documents.
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch"`

	// ODM2 contains settings of the ODM2 SQLite mapping.
	ODM2 ODM2Config `mapstructure:"odm2" yaml:"odm2"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent downloads of WaterML documents.
	// Mapping into ODM2 is always sequential.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, workspace and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// WorkspaceConfig describes the root of user workspaces.
type WorkspaceConfig struct {
	// Dir is the root directory of user workspaces. Every user gets
	// a subdirectory named after the user. If empty, WorkspaceDir(HomeDir)
	// is used.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// FetchConfig contains settings for remote WaterOneFlow services.
type FetchConfig struct {
	// ArchiveURL is the base URL of the HydroClient WaterOneFlow archive.
	// A series with a WofUri is downloaded from <ArchiveURL>/<WofUri>/zip.
	ArchiveURL string `mapstructure:"archive_url" yaml:"archive_url"`

	// RawSOAPProviders lists substrings of service URLs that do not publish
	// a usable WSDL. Such services receive a hand-built GetValuesObject
	// SOAP envelope instead.
	RawSOAPProviders []string `mapstructure:"raw_soap_providers" yaml:"raw_soap_providers"`

	// MaxRetries is the total number of attempts for every HTTP request.
	// The default 1 means no retries.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// Timeout is the HTTP timeout in seconds.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
}

// ODM2Config keeps switches for known quirks of the ODM2 mapping.
// Both are false by default, which keeps the historical output.
type ODM2Config struct {
	// KeepLastValue writes all N values of a series. When false only
	// the first N-1 values are written.
	KeepLastValue bool `mapstructure:"keep_last_value" yaml:"keep_last_value"`

	// LinkInsertedDataset links every result to its own dataset. When
	// false every result is linked to the dataset with id 1.
	LinkInsertedDataset bool `mapstructure:"link_inserted_dataset" yaml:"link_inserted_dataset"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), stderr or stdout
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Fetch: FetchConfig{
			ArchiveURL:       DefaultArchiveURL,
			RawSOAPProviders: []string{"nasa"},
			MaxRetries:       1,
			Timeout:          120,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}

// WorkspaceRoot returns the configured workspace root, or the default
// one under HomeDir.
func (c *Config) WorkspaceRoot() string {
	if c.Workspace.Dir != "" {
		return c.Workspace.Dir
	}
	return WorkspaceDir(c.HomeDir)
}
