package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ncpp/dscat/internal/iocatalog"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()

	for range 2 {
		require.NoError(t, EnsureDirs(home), "repeated calls succeed")
	}

	for _, v := range []string{
		filepath.Join(home, ".config", "dscat"),
		filepath.Join(home, ".cache", "dscat"),
		filepath.Join(home, ".local", "share", "dscat"),
		filepath.Join(home, ".local", "share", "dscat", "logs"),
	} {
		info, err := os.Stat(v)
		require.NoError(t, err, v)
		assert.True(t, info.IsDir(), v)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), v)
	}
}

func TestTouchDir(t *testing.T) {
	home := t.TempDir()

	dir := filepath.Join(home, "a", "b")
	require.NoError(t, touchDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, os.Chmod(dir, 0700))
	require.NoError(t, touchDir(dir))
	info, err = os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm(),
		"existing directory is left alone")

	file := filepath.Join(home, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	err = touchDir(filepath.Join(file, "sub"))
	assert.Equal(t, errcode.CreateDirError, errcode.Code(err))
}

func TestEnsureFiles(t *testing.T) {
	tests := []struct {
		msg     string
		ensure  func(string) error
		path    func(string) string
		content string
	}{
		{"config", EnsureConfigFile, config.ConfigFilePath, ConfigYAML},
		{"catalog", EnsureCatalogFile, config.CatalogFilePath, CatalogYAML},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			home := t.TempDir()
			require.NoError(t, EnsureDirs(home))
			path := v.path(home)

			require.NoError(t, v.ensure(home))
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, v.content, string(data))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

			custom := "# edited by user\n"
			require.NoError(t, os.WriteFile(path, []byte(custom), 0644))
			require.NoError(t, v.ensure(home))
			data, err = os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, custom, string(data), "existing file is kept")
		})
	}
}

func TestEnsureFileNoDir(t *testing.T) {
	err := EnsureConfigFile(t.TempDir())
	assert.Equal(t, errcode.CopyFileError, errcode.Code(err))
}

func TestConfigYAML(t *testing.T) {
	for _, v := range []string{"catalog:", "server:", "executor:", "log:"} {
		assert.Contains(t, ConfigYAML, v)
	}
}

func TestCatalogYAML(t *testing.T) {
	cat, err := iocatalog.Parse([]byte(CatalogYAML))
	require.NoError(t, err)
	require.NoError(t, cat.Validate())

	assert.Len(t, cat.Datasets, 7)
	assert.Len(t, cat.Packages, 2)
	d, ok := cat.Dataset("hayhoe-gfdl-pr")
	require.True(t, ok)
	assert.Equal(t, "365_day", d.TimeCalendar)
	assert.Equal(t,
		[]string{"/data/downscaled/arrm/arrm_gfdl_2.1.20c3m.pr.NAm.1971-2000.nc"},
		d.URIs())
}
