package lifecycle

import (
	"context"

	"github.com/ncpp/dscat/pkg/config"
)

// SchemaManager defines the interface for catalog schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and migrations.
// Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Create creates the catalog tables using GORM AutoMigrate.
	// Dropping existing tables is up to the caller (see db.Operator).
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the catalog schema to the latest version using GORM AutoMigrate.
	Migrate(ctx context.Context, cfg *config.Config) error
}
