package config

import (
	"net/url"
	"strings"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptWorkspaceDir sets the root directory of user workspaces.
func OptWorkspaceDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Workspace Dir", s) {
			c.Workspace.Dir = s
		}
	}
}

// OptFetchArchiveURL sets the base URL of the WaterOneFlow archive.
func OptFetchArchiveURL(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "/")
	return func(c *Config) {
		if isValidURL("Fetch Archive URL", s) {
			c.Fetch.ArchiveURL = s
		}
	}
}

// OptFetchRawSOAPProviders sets URL substrings of services that receive
// a raw GetValuesObject envelope. Empty entries are dropped.
func OptFetchRawSOAPProviders(ss []string) Option {
	var res []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return func(c *Config) {
		if len(res) > 0 {
			c.Fetch.RawSOAPProviders = res
		}
	}
}

// OptFetchMaxRetries sets the total number of attempts per HTTP request.
func OptFetchMaxRetries(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch Max Retries", i) {
			c.Fetch.MaxRetries = i
		}
	}
}

// OptFetchTimeout sets the HTTP timeout in seconds.
func OptFetchTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch Timeout", i) {
			c.Fetch.Timeout = i
		}
	}
}

// OptODM2KeepLastValue makes the mapper write every value of a series.
func OptODM2KeepLastValue(b bool) Option {
	return func(c *Config) {
		c.ODM2.KeepLastValue = b
	}
}

// OptODM2LinkInsertedDataset makes the mapper link results to the dataset
// created for them instead of the dataset with id 1.
func OptODM2LinkInsertedDataset(b bool) Option {
	return func(c *Config) {
		c.ODM2.LinkInsertedDataset = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent downloads.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, workspace, and log
// locations. Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

func isValidURL(name, s string) bool {
	if !isValidString(name, s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		gn.Warn("<em>%s</em> is not a valid http(s) URL, ignoring '%s'",
			name, s)
		return false
	}
	return true
}
