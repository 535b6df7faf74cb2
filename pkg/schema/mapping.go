package schema

import (
	"cmp"
	"database/sql"
	"slices"
	"time"
)

// RequestDataset keeps arguments that a dataset request of the climate
// operations engine takes. JSON keys are part of the engine's contract.
type RequestDataset struct {
	URI       []string `json:"uri"`
	Variable  string   `json:"variable"`
	Alias     string   `json:"alias"`
	TUnits    string   `json:"t_units"`
	TCalendar string   `json:"t_calendar"`
}

// Alias is the name under which the engine exposes the field.
func (f *Field) Alias() string {
	return f.Name
}

// RequestDataset converts a Field with a loaded Container and its URIs
// into engine arguments. URIs follow their insertion order.
func (f *Field) RequestDataset() RequestDataset {
	return RequestDataset{
		URI:       f.Container.URIValues(),
		Variable:  f.Name,
		Alias:     f.Alias(),
		TUnits:    f.Container.TimeUnits,
		TCalendar: f.Container.TimeCalendar,
	}
}

// URIValues returns the values of loaded URIs ordered by position.
func (c *Container) URIValues() []string {
	uris := slices.Clone(c.URIs)
	slices.SortStableFunc(uris, func(a, b Uri) int {
		return cmp.Compare(a.Position, b.Position)
	})
	res := make([]string, len(uris))
	for i := range uris {
		res[i] = uris[i].Value
	}
	return res
}

// ToMap returns scalar columns of the container.
func (c *Container) ToMap() map[string]any {
	return map[string]any{
		"id":                   c.ID,
		"dataset_id":           c.DatasetID,
		"time_start":           c.TimeStart.UTC().Format(time.RFC3339),
		"time_stop":            c.TimeStop.UTC().Format(time.RFC3339),
		"time_resolution_days": c.TimeResolutionDays,
		"time_frequency":       c.TimeFrequency,
		"time_units":           c.TimeUnits,
		"time_calendar":        c.TimeCalendar,
		"spatial_abstraction":  c.SpatialAbstraction,
		"spatial_envelope":     c.SpatialEnvelope,
		"spatial_resolution":   c.SpatialResolution,
		"spatial_projection":   c.SpatialProjection,
		"field_shape":          c.FieldShape,
		"description":          nullable(c.Description),
	}
}

// ToMap returns scalar columns of the field.
func (f *Field) ToMap() map[string]any {
	return map[string]any{
		"id":                f.ID,
		"container_id":      f.ContainerID,
		"clean_units_id":    f.CleanUnitsID,
		"clean_variable_id": f.CleanVariableID,
		"name":              f.Name,
		"type":              f.Type,
		"standard_name":     nullable(f.StandardName),
		"long_name":         nullable(f.LongName),
		"units":             nullable(f.Units),
		"description":       nullable(f.Description),
	}
}

func nullable(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}

// NullString converts an optional attribute into a nullable column.
func NullString(s string, ok bool) sql.NullString {
	return sql.NullString{String: s, Valid: ok}
}
