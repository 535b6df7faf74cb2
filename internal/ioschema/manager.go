// Package ioschema implements SchemaManager interface for
// catalog schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"

	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/db"
	"github.com/ncpp/dscat/pkg/lifecycle"
	"github.com/ncpp/dscat/pkg/schema"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the catalog tables. Existing tables are kept, the
// caller decides about dropping them beforehand.
func (m *manager) Create(
	ctx context.Context,
	_ *config.Config,
) error {
	gormDB := m.operator.DB()
	if gormDB == nil {
		return NotConnectedError()
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}
	return nil
}

// Migrate updates the catalog schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(
	ctx context.Context,
	_ *config.Config,
) error {
	gormDB := m.operator.DB()
	if gormDB == nil {
		return NotConnectedError()
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}
	return nil
}
