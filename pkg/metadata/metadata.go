// Package metadata defines how dscat reads metadata of geophysical data
// files. The catalog only consumes normalized records, readers of
// concrete file formats implement Extractor.
package metadata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spatial abstractions of a grid.
const (
	AbstractionPoint   = "point"
	AbstractionPolygon = "polygon"
)

// Extractor reads metadata of a variable from one or more files.
type Extractor interface {
	// Extract returns a normalized record for the requested variable.
	// Multiple URIs are treated as contiguous time segments of the same
	// grid. Extract fails if a file is unreadable or the variable is
	// absent.
	Extract(ctx context.Context, req Request) (*Record, error)
}

// Request describes what to read.
type Request struct {
	// URIs are file locations in time order.
	URIs []string

	// Variable is the name of the variable inside the files.
	Variable string

	// Calendar overrides the calendar attribute of the time coordinate.
	Calendar string

	// Units overrides the units attribute of the time coordinate.
	Units string

	// SpatialCRS overrides the projection of the grid (PROJ4 string).
	SpatialCRS string
}

// Record is the normalized metadata of a variable.
type Record struct {
	TimeStart          time.Time
	TimeStop           time.Time
	TimeResolutionDays float64
	TimeCalendar       string
	TimeUnits          string

	SpatialAbstraction string
	// SpatialEnvelope is a WKT polygon.
	SpatialEnvelope   string
	SpatialResolution string
	SpatialProj4      string

	// Shape is (realization, time, level, rows, columns).
	Shape []int

	// Variables keeps attributes of all variables found in the files.
	Variables map[string]VariableMeta
}

// VariableMeta keeps attributes of one variable.
type VariableMeta struct {
	Attrs map[string]string
}

// FieldShape serializes Shape, for example "(1, 3650, 1, 64, 128)".
func (r *Record) FieldShape() string {
	parts := make([]string, len(r.Shape))
	for i, v := range r.Shape {
		parts[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// Attr returns an attribute of a variable and reports if it exists.
func (r *Record) Attr(variable, name string) (string, bool) {
	v, ok := r.Variables[variable]
	if !ok {
		return "", false
	}
	res, ok := v.Attrs[name]
	return res, ok
}
