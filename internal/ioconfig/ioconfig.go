// Package ioconfig reads hsrc configuration from config.yaml, a .env file
// and HSRC_* environment variables, and renders the effective
// configuration back to YAML.
package ioconfig

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/gnames/hsrc/internal/iofs"
	"github.com/gnames/hsrc/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read by hsrc.
const EnvPrefix = "HSRC"

// LoadDotEnv adds variables from a .env file to the environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return iofs.ReadFileError(path, err)
}

// Load reads config.yaml from cfgPath with environment overrides and
// returns the raw values. Values are not validated, pass them through
// ToOptions to get a valid Config.
func Load(cfgPath string) (*config.Config, error) {
	var err error
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// initEnvVars binds allowed environment variables one by one, so the
// list of them is explicit. They match fields of config.ToOptions().
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Workspace configuration
	v.BindEnv("workspace.dir", "HSRC_WORKSPACE_DIR")

	// Fetch configuration
	v.BindEnv("fetch.archive_url", "HSRC_FETCH_ARCHIVE_URL")
	v.BindEnv("fetch.raw_soap_providers", "HSRC_FETCH_RAW_SOAP_PROVIDERS")
	v.BindEnv("fetch.max_retries", "HSRC_FETCH_MAX_RETRIES")
	v.BindEnv("fetch.timeout", "HSRC_FETCH_TIMEOUT")

	// ODM2 configuration
	v.BindEnv("odm2.keep_last_value", "HSRC_ODM2_KEEP_LAST_VALUE")
	v.BindEnv("odm2.link_inserted_dataset", "HSRC_ODM2_LINK_INSERTED_DATASET")

	// Log configuration
	v.BindEnv("log.level", "HSRC_LOG_LEVEL")
	v.BindEnv("log.format", "HSRC_LOG_FORMAT")
	v.BindEnv("log.destination", "HSRC_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "HSRC_JOBS_NUMBER")

	v.AutomaticEnv()
}

// Render returns the persistent part of the configuration as YAML.
func Render(cfg *config.Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
