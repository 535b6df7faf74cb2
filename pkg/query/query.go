// Package query defines the Query Engine of the catalog.
//
// Queries narrow the catalog progressively. When filters leave exactly
// one package or field, the result is resolved into dataset requests for
// the climate operations engine. When more rows remain, the result
// carries sorted distinct values of every filterable attribute, so a
// caller can add filters and ask again. Zero rows is an error with
// errcode.QueryNoResultError.
package query

import (
	"context"
	"time"

	"github.com/ncpp/dscat/pkg/schema"
)

// RequestDataset are arguments of a dataset request of the climate
// operations engine.
type RequestDataset = schema.RequestDataset

// Engine resolves catalog queries. Implementations are read-only and
// safe for concurrent use.
type Engine interface {
	// ResolvePackage narrows data packages by category, name and time
	// range.
	ResolvePackage(ctx context.Context, f PackageFilter) (*PackageResult, error)

	// ResolveVariableOrIndex narrows fields of the given kind by long
	// name, time frequency, dataset category, dataset and time range.
	ResolveVariableOrIndex(
		ctx context.Context,
		f FieldFilter,
	) (*FieldResult, error)
}

// Field kinds.
const (
	KindVariable = schema.FieldTypeVariable
	KindIndex    = schema.FieldTypeIndex
)

// TimeRange is a [Start, Stop] selection window.
//
// A catalog entry spanning [S, E] matches when S <= Start <= E or
// S <= Stop <= E. A window that strictly contains [S, E] does not match.
type TimeRange struct {
	Start time.Time `json:"start"`
	Stop  time.Time `json:"stop"`
}

// PackageFilter narrows data packages. Empty fields are not applied.
type PackageFilter struct {
	Category    string
	PackageName string
	TimeRange   *TimeRange
}

// FieldFilter narrows fields. Kind is required, other empty fields are
// not applied.
type FieldFilter struct {
	Kind            string
	LongName        string
	TimeFrequency   string
	DatasetCategory string
	Dataset         string
	TimeRange       *TimeRange
}

// Status of a resolution.
type Status string

const (
	// Resolved means exactly one match.
	Resolved Status = "resolved"
	// Ambiguous means several matches, options show what is left.
	Ambiguous Status = "ambiguous"
)

// PackageOptions are distinct values among matching packages.
type PackageOptions struct {
	DatasetCategory []string `json:"dataset_category"`
	PackageName     []string `json:"package_name"`
}

// PackageResult is either resolved datasets of one package, or options.
type PackageResult struct {
	Status   Status           `json:"status"`
	Datasets []RequestDataset `json:"datasets,omitempty"`
	Options  *PackageOptions  `json:"options,omitempty"`
}

// FieldOptions are distinct values among matching fields.
type FieldOptions struct {
	LongName        []string `json:"long_name"`
	TimeFrequency   []string `json:"time_frequency"`
	DatasetCategory []string `json:"dataset_category"`
	Dataset         []string `json:"dataset"`
}

// FieldResult is either one resolved dataset, or options.
type FieldResult struct {
	Status  Status          `json:"status"`
	Dataset *RequestDataset `json:"dataset,omitempty"`
	Options *FieldOptions   `json:"options,omitempty"`
}
