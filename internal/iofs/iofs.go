// Package iofs prepares directories and default files of dscat.
package iofs

import (
	_ "embed"
	"os"

	"github.com/ncpp/dscat/pkg/config"
)

// ConfigYAML is the default config.yaml.
//
//go:embed config.yaml
var ConfigYAML string

// CatalogYAML is the default catalog.yaml.
//
//go:embed catalog.yaml
var CatalogYAML string

// EnsureDirs creates config, cache, data and log directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the default config.yaml unless it exists.
func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), ConfigYAML)
}

// EnsureCatalogFile writes the default catalog.yaml unless it exists.
func EnsureCatalogFile(homeDir string) error {
	return ensureFile(config.CatalogFilePath(homeDir), CatalogYAML)
}

func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return CopyFileError(path, err)
	}
	return nil
}
