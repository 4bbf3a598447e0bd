/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/internal/ioconfig"
	"github.com/gnames/hsrc/internal/iofs"
	"github.com/gnames/hsrc/internal/iologger"
	hsrc "github.com/gnames/hsrc/pkg"
	"github.com/gnames/hsrc/pkg/config"
	"github.com/spf13/cobra"
)

var (
	homeDir string
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", hsrc.Version, hsrc.Build),
		Use:     "hsrc",
		Short:   "HSRC creates HydroShare resources from reference time series",
		Long: `HSRC turns a HydroClient reference time series file into a
HydroShare resource file.

Commands:
  - odm2: download WaterML values and map them into an ODM2 SQLite file
  - refts: trim the reference file to selected series
  - preview: show series of a reference file
  - config: print the effective configuration

Reference files are read from, and resources are written to, the user
workspace (<workspace.dir>/<user>). Relative paths of reference files
are resolved inside the workspace.

Configuration precedence (highest to lowest):
  1. CLI flags (--jobs, --keep-last-value, etc.)
  2. Environment variables (HSRC_*), also read from a .env file
  3. Config file (~/.config/hsrc/config.yaml)
  4. Built-in defaults

Environment Variables:
  HSRC_WORKSPACE_DIR                root of user workspaces
  HSRC_FETCH_ARCHIVE_URL            WaterOneFlow archive URL
  HSRC_FETCH_RAW_SOAP_PROVIDERS     services that get raw SOAP requests
  HSRC_FETCH_MAX_RETRIES            attempts per HTTP request
  HSRC_FETCH_TIMEOUT                HTTP timeout in seconds
  HSRC_ODM2_KEEP_LAST_VALUE         write the last value of a series
  HSRC_ODM2_LINK_INSERTED_DATASET   link results to their own dataset
  HSRC_LOG_LEVEL                    log level (debug/info/warn/error)
  HSRC_LOG_FORMAT                   log format (json/text)
  HSRC_LOG_DESTINATION              log destination (file/stdout/stderr)
  HSRC_JOBS_NUMBER                  concurrent downloads`,
		PersistentPreRunE: bootstrap,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Remove the automatic "hsrc version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	// -V is consistent with other gn projects
	rootCmd.Flags().BoolP("version", "V", false, "version for hsrc")

	rootCmd.AddCommand(
		getODM2Cmd(),
		getReftsCmd(),
		getPreviewCmd(),
		getConfigCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Logging starts with defaults and is reconfigured after config
	// is loaded.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = ioconfig.LoadDotEnv(".env"); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	cfgPath := config.ConfigFilePath(homeDir)
	if cfgViper, err = ioconfig.Load(cfgPath); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", cfgPath)
	return nil
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
