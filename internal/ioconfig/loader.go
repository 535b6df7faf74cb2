// Package ioconfig loads dscat configuration from config.yaml and DSCAT_
// environment variables.
package ioconfig

import (
	"strings"

	"github.com/ncpp/dscat/internal/iofs"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override
// config.yaml values.
const EnvPrefix = "DSCAT"

// Load reads config.yaml from the config directory of homeDir and applies
// environment overrides. The result contains only persistent settings,
// it is meant to be turned into options with ToOptions.
func Load(homeDir string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(homeDir)
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

// Options loads the configuration and converts it to options on top of
// defaults.
func Options(homeDir string) ([]config.Option, error) {
	res, err := Load(homeDir)
	if err != nil {
		return nil, err
	}
	return res.ToOptions(), nil
}

func initEnvVars(v *viper.Viper) {
	// Variables are bound one by one to keep the list of allowed names
	// explicit. They match the fields of config.ToOptions().
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Catalog configuration
	v.BindEnv("catalog.backend", "DSCAT_CATALOG_BACKEND")
	v.BindEnv("catalog.path", "DSCAT_CATALOG_PATH")
	v.BindEnv("catalog.host", "DSCAT_CATALOG_HOST")
	v.BindEnv("catalog.port", "DSCAT_CATALOG_PORT")
	v.BindEnv("catalog.user", "DSCAT_CATALOG_USER")
	v.BindEnv("catalog.password", "DSCAT_CATALOG_PASSWORD")
	v.BindEnv("catalog.database", "DSCAT_CATALOG_DATABASE")
	v.BindEnv("catalog.ssl_mode", "DSCAT_CATALOG_SSL_MODE")

	// Server configuration
	v.BindEnv("server.port", "DSCAT_SERVER_PORT")
	v.BindEnv("server.cache_minutes", "DSCAT_SERVER_CACHE_MINUTES")
	v.BindEnv("server.allowed_origins", "DSCAT_SERVER_ALLOWED_ORIGINS")

	// Executor configuration
	v.BindEnv("executor.url", "DSCAT_EXECUTOR_URL")
	v.BindEnv("executor.poll_seconds", "DSCAT_EXECUTOR_POLL_SECONDS")
	v.BindEnv("executor.timeout_seconds", "DSCAT_EXECUTOR_TIMEOUT_SECONDS")

	// Log configuration
	v.BindEnv("log.level", "DSCAT_LOG_LEVEL")
	v.BindEnv("log.format", "DSCAT_LOG_FORMAT")
	v.BindEnv("log.destination", "DSCAT_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "DSCAT_JOBS_NUMBER")

	v.AutomaticEnv()
}
