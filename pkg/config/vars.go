package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "dscat"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/dscat by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/dscat by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// DataDir returns the directory that keeps the sqlite catalog.
// Returns ~/.local/share/dscat by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/dscat/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/dscat/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// CatalogFilePath returns the path to the harvest descriptors file.
// Returns ~/.config/dscat/catalog.yaml by default.
func CatalogFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "catalog.yaml")
}

// DefaultDatabasePath returns the default sqlite catalog location.
func DefaultDatabasePath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "catalog.sqlite")
}
