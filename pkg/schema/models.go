// Package schema provides the catalog store models of dscat.
// Table and column names keep the layout of the original single-file
// catalog, so existing catalogs stay readable by other tools.
package schema

import (
	"database/sql"
	"time"
)

// DatasetCategory is a top-level grouping of datasets, for example
// "GCMs" or "Gridded Observational".
type DatasetCategory struct {
	ID int64 `gorm:"primaryKey"`

	// Name is the natural key of a category.
	Name string `gorm:"not null;uniqueIndex"`

	Description string `gorm:"type:text;not null"`
}

// TableName implements gorm's tabler interface.
func (DatasetCategory) TableName() string { return "category" }

// Dataset is a named data source or model family.
type Dataset struct {
	ID         int64           `gorm:"primaryKey"`
	CategoryID int64           `gorm:"not null;index"`
	Category   DatasetCategory `gorm:"foreignKey:CategoryID"`

	// Name is the natural key of a dataset.
	Name string `gorm:"not null;uniqueIndex"`

	Description string `gorm:"type:text;not null"`
}

// TableName implements gorm's tabler interface.
func (Dataset) TableName() string { return "dataset" }

// Container is one physically-backed extraction unit: one or more URIs
// sharing the same coordinate system.
type Container struct {
	ID        int64   `gorm:"primaryKey"`
	DatasetID int64   `gorm:"not null;index"`
	Dataset   Dataset `gorm:"foreignKey:DatasetID"`

	// TimeStart and TimeStop are the temporal extent, stored in UTC.
	TimeStart time.Time `gorm:"not null;index"`
	TimeStop  time.Time `gorm:"not null;index"`

	// TimeResolutionDays is the mean time step in days.
	TimeResolutionDays float64 `gorm:"not null"`

	// TimeFrequency is derived from TimeResolutionDays, see TimeFrequency.
	TimeFrequency string `gorm:"not null;check:chk_container_time_frequency,time_frequency IN ('day','month','year')"`

	TimeUnits    string `gorm:"not null"`
	TimeCalendar string `gorm:"not null"`

	// SpatialAbstraction is "point" or "polygon".
	SpatialAbstraction string `gorm:"not null;check:chk_container_spatial_abstraction,spatial_abstraction IN ('point','polygon')"`

	// SpatialEnvelope is a WKT polygon.
	SpatialEnvelope   string `gorm:"type:text;not null"`
	SpatialResolution string `gorm:"not null"`

	// SpatialProjection is a PROJ4 string.
	SpatialProjection string `gorm:"not null"`

	// FieldShape is the serialized array shape, e.g. "(1, 3650, 1, 64, 128)".
	FieldShape string `gorm:"not null"`

	Description sql.NullString `gorm:"type:text"`

	URIs   []Uri   `gorm:"foreignKey:ContainerID"`
	Fields []Field `gorm:"foreignKey:ContainerID"`
}

// TableName implements gorm's tabler interface.
func (Container) TableName() string { return "container" }

// Uri is a physical file location backing a Container. Position keeps
// the insertion order of multi-file containers.
type Uri struct {
	ID          int64  `gorm:"primaryKey"`
	ContainerID int64  `gorm:"not null;uniqueIndex:idx_uri_value_container,priority:2"`
	Value       string `gorm:"not null;uniqueIndex:idx_uri_value_container,priority:1"`
	Position    int    `gorm:"not null"`
}

// TableName implements gorm's tabler interface.
func (Uri) TableName() string { return "uri" }

// CleanUnits is an entry of the canonical unit vocabulary.
type CleanUnits struct {
	ID           int64          `gorm:"primaryKey"`
	StandardName string         `gorm:"not null;uniqueIndex"`
	LongName     string         `gorm:"not null"`
	Description  sql.NullString `gorm:"type:text"`
}

// TableName implements gorm's tabler interface.
func (CleanUnits) TableName() string { return "clean_units" }

// CleanVariable is an entry of the canonical variable vocabulary.
type CleanVariable struct {
	ID           int64          `gorm:"primaryKey"`
	StandardName string         `gorm:"not null;uniqueIndex"`
	LongName     string         `gorm:"not null;index"`
	Description  sql.NullString `gorm:"type:text"`
}

// TableName implements gorm's tabler interface.
func (CleanVariable) TableName() string { return "clean_variable" }

// Field types.
const (
	FieldTypeIndex    = "index"
	FieldTypeVariable = "variable"
)

// Field is one raw variable of a Container annotated with its clean
// units and clean variable.
type Field struct {
	ID          int64     `gorm:"primaryKey"`
	ContainerID int64     `gorm:"not null;uniqueIndex:idx_field_name_container,priority:2"`
	Container   Container `gorm:"foreignKey:ContainerID"`

	CleanUnitsID int64      `gorm:"not null;index"`
	CleanUnits   CleanUnits `gorm:"foreignKey:CleanUnitsID"`

	CleanVariableID int64         `gorm:"not null;index"`
	CleanVariable   CleanVariable `gorm:"foreignKey:CleanVariableID"`

	// Name is the raw variable name inside the data file.
	Name string `gorm:"not null;uniqueIndex:idx_field_name_container,priority:1"`

	// Type is "index" or "variable".
	Type string `gorm:"not null;index;check:chk_field_type,type IN ('index','variable')"`

	// StandardName, LongName and Units are copied from the attributes of
	// the source variable, when present.
	StandardName sql.NullString
	LongName     sql.NullString
	Units        sql.NullString

	Description sql.NullString `gorm:"type:text"`
}

// TableName implements gorm's tabler interface.
func (Field) TableName() string { return "field" }

// DataPackage is a named ordered collection of Fields of the same shape.
// Use NewDataPackage to build one.
type DataPackage struct {
	ID          int64           `gorm:"primaryKey"`
	CategoryID  int64           `gorm:"not null;index"`
	Category    DatasetCategory `gorm:"foreignKey:CategoryID"`
	Name        string          `gorm:"not null;index"`
	Description string          `gorm:"type:text;not null"`

	// TimeStart and TimeStop are derived from member containers.
	TimeStart time.Time `gorm:"not null"`
	TimeStop  time.Time `gorm:"not null"`

	Members []PackageField `gorm:"foreignKey:DataPackageID"`
}

// TableName implements gorm's tabler interface.
func (DataPackage) TableName() string { return "package" }

// PackageField associates a Field with a DataPackage.
type PackageField struct {
	DataPackageID int64 `gorm:"primaryKey"`
	FieldID       int64 `gorm:"primaryKey"`
	Position      int   `gorm:"not null"`
	Field         Field `gorm:"foreignKey:FieldID"`
}

// TableName implements gorm's tabler interface.
func (PackageField) TableName() string { return "assoc_dp_rv" }
