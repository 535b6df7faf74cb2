package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all catalog models for GORM AutoMigrate, parents
// first.
func AllModels() []any {
	return []any{
		&DatasetCategory{},
		&Dataset{},
		&Container{},
		&Uri{},
		&CleanUnits{},
		&CleanVariable{},
		&Field{},
		&DataPackage{},
		&PackageField{},
	}
}

// TableNames returns catalog tables in the order they can be dropped.
func TableNames() []string {
	return []string{
		PackageField{}.TableName(),
		DataPackage{}.TableName(),
		Field{}.TableName(),
		CleanVariable{}.TableName(),
		CleanUnits{}.TableName(),
		Uri{}.TableName(),
		Container{}.TableName(),
		Dataset{}.TableName(),
		DatasetCategory{}.TableName(),
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
