// Package config provides configuration management for dscat.
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
//   - Catalog: backend, path, host, port, user, password, database, ssl_mode
//   - Server: port, cache_minutes, allowed_origins
//   - Executor: url, poll_seconds, timeout_seconds
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Harvest.DescriptorIDs, Fresh, SkipDatasets, SkipPackages
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use DSCAT_ prefix with underscores for nesting:
//
//	DSCAT_CATALOG_BACKEND=sqlite
//	DSCAT_CATALOG_PATH=/data/catalog.sqlite
//	DSCAT_LOG_LEVEL=info
//	DSCAT_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete dscat configuration.
type Config struct {
	// Catalog contains settings of the catalog store.
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`

	// Harvest contains settings specific to the harvest command.
	Harvest HarvestConfig `mapstructure:"harvest" yaml:"harvest"`

	// Server contains settings of the JSON query API.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Executor contains settings of the remote job execution service.
	Executor ExecutorConfig `mapstructure:"executor" yaml:"executor"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for metadata checks.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, data and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// CatalogConfig describes where the catalog is stored.
type CatalogConfig struct {
	// Backend is either "sqlite" (a single-file catalog) or "postgres".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the sqlite catalog file. When empty, the catalog lives in
	// the data directory (see DefaultDatabasePath).
	Path string `mapstructure:"path" yaml:"path"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// HarvestConfig contains settings specific to the harvest command.
type HarvestConfig struct {
	// DescriptorIDs limits harvest to the listed dataset descriptors.
	// Empty slice means all descriptors from catalog.yaml.
	DescriptorIDs []string `mapstructure:"descriptor_ids" yaml:"descriptor_ids"`

	// Fresh drops and recreates the catalog schema before harvesting.
	Fresh bool `mapstructure:"fresh" yaml:"fresh"`

	// SkipDatasets skips dataset descriptors and inserts packages only.
	SkipDatasets bool `mapstructure:"skip_datasets" yaml:"skip_datasets"`

	// SkipPackages skips package descriptors.
	SkipPackages bool `mapstructure:"skip_packages" yaml:"skip_packages"`
}

// ServerConfig contains settings of the JSON query API.
type ServerConfig struct {
	// Port to listen on.
	Port int `mapstructure:"port" yaml:"port"`

	// CacheMinutes is how long resolved queries stay cached.
	CacheMinutes int `mapstructure:"cache_minutes" yaml:"cache_minutes"`

	// AllowedOrigins is the CORS origin list.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// ExecutorConfig contains settings of the remote job execution service.
type ExecutorConfig struct {
	// URL is the base URL of the execution service.
	URL string `mapstructure:"url" yaml:"url"`

	// PollSeconds is the initial interval between status checks.
	PollSeconds int `mapstructure:"poll_seconds" yaml:"poll_seconds"`

	// TimeoutSeconds limits how long a job is waited for.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Catalog: CatalogConfig{
			Backend:  "sqlite",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "dscat",
			SSLMode:  "disable",
		},
		Server: ServerConfig{
			Port:           8080,
			CacheMinutes:   10,
			AllowedOrigins: []string{"*"},
		},
		Executor: ExecutorConfig{
			URL:            "http://localhost:8000",
			PollSeconds:    2,
			TimeoutSeconds: 3600,
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

// DatabasePath returns the sqlite catalog file in use.
func (c *Config) DatabasePath() string {
	if c.Catalog.Path != "" {
		return c.Catalog.Path
	}
	return DefaultDatabasePath(c.HomeDir)
}
