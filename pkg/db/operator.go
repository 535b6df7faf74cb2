package db

import (
	"context"

	"github.com/ncpp/dscat/pkg/config"
	"gorm.io/gorm"
)

// Operator is the store handle of the catalog. It is created once,
// passed to every component that needs the catalog, and closed at the
// end of a run.
type Operator interface {
	// Connect opens the catalog store configured in cfg.Catalog.
	Connect(ctx context.Context, cfg *config.Config) error

	// Close releases the store.
	Close() error

	// DB returns the gorm session of the store, or nil if not connected.
	DB() *gorm.DB

	// TableExists checks if a table exists in the catalog.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if any catalog table exists.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all catalog tables.
	DropAllTables(ctx context.Context) error

	// Scoped runs fn inside a transaction. The transaction commits when
	// fn returns nil, and rolls back when fn returns an error or panics.
	Scoped(ctx context.Context, fn func(tx *gorm.DB) error) error
}
