// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ncpp/dscat/internal/iodb"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/db"
	"github.com/ncpp/dscat/pkg/schema"
)

// GetTestConfig returns a configuration suitable for tests. Home
// directory and the sqlite catalog live in a temporary directory that is
// removed when the test finishes. Logs go to stderr.
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()

	home := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(home),
		config.OptCatalogBackend("sqlite"),
		config.OptCatalogPath(filepath.Join(home, "catalog.sqlite")),
		config.OptLogDestination("stderr"),
		config.OptLogLevel("error"),
		config.OptJobsNumber(2),
	})
	return cfg
}

// OpenCatalog connects to a fresh sqlite catalog with all tables created.
// The connection is closed when the test finishes.
func OpenCatalog(t *testing.T, cfg *config.Config) db.Operator {
	t.Helper()

	op := iodb.New()
	if err := op.Connect(context.Background(), cfg); err != nil {
		t.Fatalf("Failed to open test catalog: %v", err)
	}
	t.Cleanup(func() { op.Close() })

	if err := schema.Migrate(op.DB()); err != nil {
		t.Fatalf("Failed to create test catalog schema: %v", err)
	}
	return op
}
