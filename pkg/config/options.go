package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptCatalogBackend sets the catalog store backend.
// Valid values: "sqlite", "postgres".
func OptCatalogBackend(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Catalog.Backend", s) {
			c.Catalog.Backend = s
		}
	}
}

// OptCatalogPath sets the sqlite catalog file.
func OptCatalogPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Path", s) {
			c.Catalog.Path = s
		}
	}
}

// OptCatalogHost sets the PostgreSQL server hostname or IP address.
func OptCatalogHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Host", s) {
			c.Catalog.Host = s
		}
	}
}

// OptCatalogPort sets the PostgreSQL server port number.
func OptCatalogPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Catalog Port", i) {
			c.Catalog.Port = i
		}
	}
}

// OptCatalogUser sets the PostgreSQL database username.
func OptCatalogUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog User", s) {
			c.Catalog.User = s
		}
	}
}

// OptCatalogPassword sets the PostgreSQL database password.
func OptCatalogPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Password", s) {
			c.Catalog.Password = s
		}
	}
}

// OptCatalogDatabase sets the PostgreSQL database name.
func OptCatalogDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Database", s) {
			c.Catalog.Database = s
		}
	}
}

// OptCatalogSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptCatalogSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Catalog.SSLMode", s) {
			c.Catalog.SSLMode = s
		}
	}
}

// OptHarvestDescriptorIDs limits harvest to the given descriptor IDs.
// Runtime-only field - not in ToOptions().
func OptHarvestDescriptorIDs(ss []string) Option {
	var ids []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v != "" {
			ids = append(ids, v)
		}
	}
	return func(c *Config) {
		if len(ids) > 0 {
			c.Harvest.DescriptorIDs = ids
		}
	}
}

// OptHarvestFresh recreates the schema before harvesting.
// Runtime-only field - not in ToOptions().
func OptHarvestFresh(b bool) Option {
	return func(c *Config) {
		c.Harvest.Fresh = b
	}
}

// OptHarvestSkipDatasets makes harvest insert packages only.
// Runtime-only field - not in ToOptions().
func OptHarvestSkipDatasets(b bool) Option {
	return func(c *Config) {
		c.Harvest.SkipDatasets = b
	}
}

// OptHarvestSkipPackages makes harvest insert dataset descriptors only.
// Runtime-only field - not in ToOptions().
func OptHarvestSkipPackages(b bool) Option {
	return func(c *Config) {
		c.Harvest.SkipPackages = b
	}
}

// OptServerPort sets the port of the query API.
func OptServerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Port", i) {
			c.Server.Port = i
		}
	}
}

// OptServerCacheMinutes sets how long resolved queries stay cached.
func OptServerCacheMinutes(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Cache Minutes", i) {
			c.Server.CacheMinutes = i
		}
	}
}

// OptServerAllowedOrigins sets CORS origins of the query API.
func OptServerAllowedOrigins(ss []string) Option {
	var origins []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v != "" {
			origins = append(origins, v)
		}
	}
	return func(c *Config) {
		if len(origins) > 0 {
			c.Server.AllowedOrigins = origins
		}
	}
}

// OptExecutorURL sets the base URL of the job execution service.
func OptExecutorURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidURL("Executor URL", s) {
			c.Executor.URL = s
		}
	}
}

// OptExecutorPollSeconds sets the initial interval between job status
// checks.
func OptExecutorPollSeconds(i int) Option {
	return func(c *Config) {
		if isValidInt("Executor Poll Seconds", i) {
			c.Executor.PollSeconds = i
		}
	}
}

// OptExecutorTimeoutSeconds sets how long a job is waited for.
func OptExecutorTimeoutSeconds(i int) Option {
	return func(c *Config) {
		if isValidInt("Executor Timeout Seconds", i) {
			c.Executor.TimeoutSeconds = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, data, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
