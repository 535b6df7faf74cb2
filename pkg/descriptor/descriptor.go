// Package descriptor provides the schema of catalog.yaml: declarative
// descriptions of datasets to harvest and of data packages that bundle
// harvested fields.
//
// A harvest descriptor is one of two variants. The "file" variant lists
// file locations directly, the "folder" variant composes a root folder
// with relative file names. Both are checked by Validate before anything
// is written to the catalog.
package descriptor

import (
	"path/filepath"
	"strings"

	"github.com/ncpp/dscat/pkg/metadata"
)

// Catalog loads descriptors.
type Catalog interface {
	Load() (*CatalogConfig, error)
}

// CatalogConfig represents the complete catalog.yaml file.
type CatalogConfig struct {
	// Datasets are harvested in the given order.
	Datasets []HarvestDescriptor `yaml:"datasets"`

	// Packages are inserted after datasets, in the given order.
	Packages []PackageDescriptor `yaml:"packages"`

	// Warnings holds non-fatal validation warnings (not serialized)
	Warnings []ValidationWarning `yaml:"-"`
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	DescriptorID string // ID of the descriptor
	Field        string // Field name that has the issue
	Message      string // Description of the issue
}

// Kind tags the variant of a harvest descriptor.
type Kind string

const (
	// KindFile lists file locations in URI.
	KindFile Kind = "file"
	// KindFolder composes Folder with each of Files.
	KindFolder Kind = "folder"
)

// Named is a name-description pair of a category or dataset.
type Named struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Vocabulary is the natural key and labels of a clean units or clean
// variable entry.
type Vocabulary struct {
	StandardName string `yaml:"standard_name"`
	LongName     string `yaml:"long_name"`
	Description  string `yaml:"description,omitempty"`
}

// HarvestDescriptor describes one physical dataset.
type HarvestDescriptor struct {
	// ID is a unique identifier used by packages and CLI filters.
	ID string `yaml:"id"`

	// Kind is "file" or "folder". When empty, it is "folder" if Folder is
	// set, and "file" otherwise.
	Kind Kind `yaml:"kind,omitempty"`

	// URI lists file locations of the "file" variant, in time order.
	URI []string `yaml:"uri,omitempty"`

	// Folder is the root of the "folder" variant.
	Folder string `yaml:"folder,omitempty"`

	// Files are relative to Folder, in time order.
	Files []string `yaml:"files,omitempty"`

	// Type is "variable" or "index".
	Type string `yaml:"type"`

	DatasetCategory Named `yaml:"dataset_category"`
	Dataset         Named `yaml:"dataset"`

	// Variables are raw variable names. CleanUnits and CleanVariable
	// follow the same order.
	Variables     []string     `yaml:"variables"`
	CleanUnits    []Vocabulary `yaml:"clean_units"`
	CleanVariable []Vocabulary `yaml:"clean_variable"`

	// Optional overrides for the metadata reader.
	TimeCalendar string `yaml:"time_calendar,omitempty"`
	TimeUnits    string `yaml:"time_units,omitempty"`
	SpatialCRS   string `yaml:"spatial_crs,omitempty"`
}

// PackageDescriptor bundles fields of already harvested datasets.
type PackageDescriptor struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	DatasetCategory Named  `yaml:"dataset_category"`

	// Datasets are IDs of harvest descriptors, in package order.
	Datasets []string `yaml:"datasets"`
}

// URIs returns file locations of the descriptor in time order.
func (d *HarvestDescriptor) URIs() []string {
	if d.kind() == KindFile {
		return d.URI
	}
	res := make([]string, len(d.Files))
	for i, f := range d.Files {
		res[i] = joinLocation(d.Folder, f)
	}
	return res
}

// MetadataRequest builds a request for the given variable. Empty variable
// means the first variable of the descriptor.
func (d *HarvestDescriptor) MetadataRequest(variable string) metadata.Request {
	if variable == "" && len(d.Variables) > 0 {
		variable = d.Variables[0]
	}
	return metadata.Request{
		URIs:       d.URIs(),
		Variable:   variable,
		Calendar:   d.TimeCalendar,
		Units:      d.TimeUnits,
		SpatialCRS: d.SpatialCRS,
	}
}

func (d *HarvestDescriptor) kind() Kind {
	if d.Kind != "" {
		return d.Kind
	}
	if d.Folder != "" {
		return KindFolder
	}
	return KindFile
}

func joinLocation(folder, file string) string {
	if IsURL(folder) {
		return strings.TrimRight(folder, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return filepath.Join(folder, file)
}

// Dataset returns a harvest descriptor by ID.
func (c *CatalogConfig) Dataset(id string) (HarvestDescriptor, bool) {
	for _, d := range c.Datasets {
		if d.ID == id {
			return d, true
		}
	}
	return HarvestDescriptor{}, false
}
