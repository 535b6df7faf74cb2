package ioconfig

import (
	"os"
	"testing"

	"github.com/ncpp/dscat/internal/iofs"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, iofs.EnsureDirs(home))
	require.NoError(t, iofs.EnsureConfigFile(home))
	return home
}

func TestLoadDefaultFile(t *testing.T) {
	home := setupHome(t)

	res, err := Load(home)
	require.NoError(t, err)

	def := config.New()
	assert.Equal(t, def.Catalog.Backend, res.Catalog.Backend)
	assert.Equal(t, def.Catalog.Port, res.Catalog.Port)
	assert.Equal(t, def.Server.Port, res.Server.Port)
	assert.Equal(t, def.Server.CacheMinutes, res.Server.CacheMinutes)
	assert.Equal(t, def.Executor.URL, res.Executor.URL)
	assert.Equal(t, def.Log, res.Log)
	assert.Empty(t, res.Catalog.Path)
	assert.Zero(t, res.JobsNumber, "jobs_number is commented out")
}

func TestLoadEnvOverrides(t *testing.T) {
	home := setupHome(t)
	t.Setenv("DSCAT_CATALOG_BACKEND", "postgres")
	t.Setenv("DSCAT_CATALOG_PORT", "5433")
	t.Setenv("DSCAT_SERVER_CACHE_MINUTES", "1")
	t.Setenv("DSCAT_EXECUTOR_URL", "https://pavics.example.org")
	t.Setenv("DSCAT_LOG_LEVEL", "debug")
	t.Setenv("DSCAT_JOBS_NUMBER", "3")

	res, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, "postgres", res.Catalog.Backend)
	assert.Equal(t, 5433, res.Catalog.Port)
	assert.Equal(t, 1, res.Server.CacheMinutes)
	assert.Equal(t, "https://pavics.example.org", res.Executor.URL)
	assert.Equal(t, "debug", res.Log.Level)
	assert.Equal(t, 3, res.JobsNumber)
}

func TestOptions(t *testing.T) {
	home := setupHome(t)
	t.Setenv("DSCAT_LOG_DESTINATION", "stderr")

	opts, err := Options(home)
	require.NoError(t, err)

	cfg := config.New()
	jobs := cfg.JobsNumber
	cfg.Update(opts)
	assert.Equal(t, "stderr", cfg.Log.Destination)
	assert.Equal(t, jobs, cfg.JobsNumber, "default kept when not configured")
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.Equal(t, errcode.ReadFileError, errcode.Code(err))
	})

	t.Run("malformed file", func(t *testing.T) {
		home := setupHome(t)
		path := config.ConfigFilePath(home)
		require.NoError(t, os.WriteFile(path, []byte("catalog: [1, 2\n"), 0644))
		_, err := Load(home)
		assert.Equal(t, errcode.ReadFileError, errcode.Code(err))
	})

	t.Run("wrong type", func(t *testing.T) {
		home := setupHome(t)
		path := config.ConfigFilePath(home)
		data := []byte("server:\n  port: many\n")
		require.NoError(t, os.WriteFile(path, data, 0644))
		_, err := Load(home)
		assert.Equal(t, errcode.ReadFileError, errcode.Code(err))
	})
}
