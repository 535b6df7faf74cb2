package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ncpp/dscat/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "dscat"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "dscat"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "dscat", "logs"),
		},
		{
			msg: "catalog file",
			fn:  config.CatalogFilePath,
			res: filepath.Join(tempHome, ".config", "dscat", "catalog.yaml"),
		},
		{
			msg: "database file",
			fn:  config.DefaultDatabasePath,
			res: filepath.Join(tempHome, ".local", "share", "dscat",
				"catalog.sqlite"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "sqlite", cfg.Catalog.Backend)
	assert.Equal(t, "", cfg.Catalog.Path)
	assert.Equal(t, "localhost", cfg.Catalog.Host)
	assert.Equal(t, 5432, cfg.Catalog.Port)
	assert.Equal(t, "dscat", cfg.Catalog.Database)
	assert.Equal(t, "disable", cfg.Catalog.SSLMode)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.CacheMinutes)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, "http://localhost:8000", cfg.Executor.URL)
	assert.Equal(t, 2, cfg.Executor.PollSeconds)
	assert.Equal(t, 3600, cfg.Executor.TimeoutSeconds)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)

	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	assert.False(t, cfg.Harvest.Fresh)
	assert.Nil(t, cfg.Harvest.DescriptorIDs)
}

func TestDatabasePath(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/user")})
	assert.Equal(t,
		filepath.Join("/home/user", ".local", "share", "dscat",
			"catalog.sqlite"),
		cfg.DatabasePath(),
		"default path",
	)

	cfg.Update([]config.Option{config.OptCatalogPath("/tmp/ncpp.db")})
	assert.Equal(t, "/tmp/ncpp.db", cfg.DatabasePath(), "custom path")
}

func TestOptionCatalogBackend(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets postgres", "postgres", "postgres"},
		{"normalizes case", " SQLite ", "sqlite"},
		{"ignores unknown backend", "mysql", "sqlite"},
		{"ignores empty", "", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptCatalogBackend(tt.input)})
			assert.Equal(t, tt.expected, cfg.Catalog.Backend)
		})
	}
}

func TestOptionCatalogHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets valid host", "db.example.com", "db.example.com"},
		{"trims whitespace", "  db.example.com  ", "db.example.com"},
		{"ignores empty string", "", "localhost"},
		{"ignores whitespace-only", "   ", "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptCatalogHost(tt.input)})
			assert.Equal(t, tt.expected, cfg.Catalog.Host)
		})
	}
}

func TestOptionCatalogSSLMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets require", "require", "require"},
		{"sets verify-full", "verify-full", "verify-full"},
		{"normalizes to lowercase", "VERIFY-CA", "verify-ca"},
		{"ignores invalid value", "invalid", "disable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptCatalogSSLMode(tt.input)})
			assert.Equal(t, tt.expected, cfg.Catalog.SSLMode)
		})
	}
}

func TestOptionIntegers(t *testing.T) {
	tests := []struct {
		msg   string
		opt   func(int) config.Option
		get   func(*config.Config) int
		input int
		res   int
	}{
		{
			msg: "catalog port", opt: config.OptCatalogPort,
			get:   func(c *config.Config) int { return c.Catalog.Port },
			input: 6543, res: 6543,
		},
		{
			msg: "catalog port zero", opt: config.OptCatalogPort,
			get:   func(c *config.Config) int { return c.Catalog.Port },
			input: 0, res: 5432,
		},
		{
			msg: "server port", opt: config.OptServerPort,
			get:   func(c *config.Config) int { return c.Server.Port },
			input: 9000, res: 9000,
		},
		{
			msg: "cache minutes negative", opt: config.OptServerCacheMinutes,
			get:   func(c *config.Config) int { return c.Server.CacheMinutes },
			input: -1, res: 10,
		},
		{
			msg: "poll seconds", opt: config.OptExecutorPollSeconds,
			get:   func(c *config.Config) int { return c.Executor.PollSeconds },
			input: 5, res: 5,
		},
		{
			msg: "timeout seconds", opt: config.OptExecutorTimeoutSeconds,
			get:   func(c *config.Config) int { return c.Executor.TimeoutSeconds },
			input: 60, res: 60,
		},
		{
			msg: "jobs number", opt: config.OptJobsNumber,
			get:   func(c *config.Config) int { return c.JobsNumber },
			input: 8, res: 8,
		},
		{
			msg: "jobs number negative", opt: config.OptJobsNumber,
			get:   func(c *config.Config) int { return c.JobsNumber },
			input: -5, res: runtime.NumCPU(),
		},
	}

	for _, v := range tests {
		cfg := config.New()
		cfg.Update([]config.Option{v.opt(v.input)})
		assert.Equal(t, v.res, v.get(cfg), v.msg)
	}
}

func TestOptionExecutorURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets https url", "https://wps.example.org", "https://wps.example.org"},
		{"strips trailing slash", "http://exec:9000/", "http://exec:9000"},
		{"ignores missing scheme", "exec:9000", "http://localhost:8000"},
		{"ignores ftp", "ftp://exec.org", "http://localhost:8000"},
		{"ignores empty", "", "http://localhost:8000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptExecutorURL(tt.input)})
			assert.Equal(t, tt.expected, cfg.Executor.URL)
		})
	}
}

func TestOptionLog(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptLogLevel("DEBUG"),
		config.OptLogFormat("tint"),
		config.OptLogDestination("stderr"),
	})
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "tint", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Destination)

	cfg.Update([]config.Option{
		config.OptLogLevel("trace"),
		config.OptLogFormat("xml"),
		config.OptLogDestination("syslog"),
	})
	assert.Equal(t, "debug", cfg.Log.Level, "invalid level is ignored")
	assert.Equal(t, "tint", cfg.Log.Format, "invalid format is ignored")
	assert.Equal(t, "stderr", cfg.Log.Destination,
		"invalid destination is ignored")
}

func TestOptionHarvest(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHarvestDescriptorIDs([]string{" cancm4 ", "", "hayhoe"}),
		config.OptHarvestFresh(true),
		config.OptHarvestSkipPackages(true),
	})
	assert.Equal(t, []string{"cancm4", "hayhoe"}, cfg.Harvest.DescriptorIDs)
	assert.True(t, cfg.Harvest.Fresh)
	assert.False(t, cfg.Harvest.SkipDatasets)
	assert.True(t, cfg.Harvest.SkipPackages)

	cfg.Update([]config.Option{config.OptHarvestDescriptorIDs(nil)})
	assert.Equal(t, []string{"cancm4", "hayhoe"}, cfg.Harvest.DescriptorIDs,
		"empty ids keep previous value")
}

func TestOptionServerAllowedOrigins(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptServerAllowedOrigins([]string{"https://ncpp.example.org", " "}),
	})
	assert.Equal(t, []string{"https://ncpp.example.org"},
		cfg.Server.AllowedOrigins)
}

func TestMultipleOptions(t *testing.T) {
	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptCatalogHost("first.host.com"),
			config.OptCatalogHost("second.host.com"),
		})
		assert.Equal(t, "second.host.com", cfg.Catalog.Host)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		original.Update([]config.Option{
			config.OptCatalogBackend("postgres"),
			config.OptCatalogPath("/tmp/catalog.db"),
			config.OptCatalogHost("test.host.com"),
			config.OptCatalogPort(6543),
			config.OptCatalogUser("testuser"),
			config.OptCatalogPassword("testpass"),
			config.OptCatalogDatabase("testdb"),
			config.OptCatalogSSLMode("require"),
			config.OptServerPort(9999),
			config.OptServerCacheMinutes(1),
			config.OptServerAllowedOrigins([]string{"https://a.org"}),
			config.OptExecutorURL("https://exec.org"),
			config.OptExecutorPollSeconds(7),
			config.OptExecutorTimeoutSeconds(70),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(3),
		})

		newCfg := config.New()
		newCfg.Update(original.ToOptions())

		assert.Equal(t, original.Catalog, newCfg.Catalog)
		assert.Equal(t, original.Server, newCfg.Server)
		assert.Equal(t, original.Executor, newCfg.Executor)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptHarvestDescriptorIDs([]string{"cancm4"}),
			config.OptHarvestFresh(true),
			config.OptHarvestSkipDatasets(true),
		})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())

		assert.Equal(t, "", newCfg.HomeDir)
		assert.Nil(t, newCfg.Harvest.DescriptorIDs)
		assert.False(t, newCfg.Harvest.Fresh)
		assert.False(t, newCfg.Harvest.SkipDatasets)
	})
}
