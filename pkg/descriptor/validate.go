package descriptor

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/ncpp/dscat/pkg/schema"
)

// Validate checks the whole catalog configuration and applies defaults.
func (c *CatalogConfig) Validate() error {
	if len(c.Datasets) == 0 && len(c.Packages) == 0 {
		return fmt.Errorf("no datasets or packages specified in catalog")
	}

	ids := make(map[string]struct{}, len(c.Datasets))
	for i := range c.Datasets {
		d := &c.Datasets[i]
		warnings, err := d.Validate()
		if err != nil {
			return fmt.Errorf("dataset %d (%s): %w", i+1, d.ID, err)
		}
		if _, ok := ids[d.ID]; ok {
			return fmt.Errorf("dataset %d: duplicate id '%s'", i+1, d.ID)
		}
		ids[d.ID] = struct{}{}
		c.Warnings = append(c.Warnings, warnings...)
	}

	names := make(map[string]struct{}, len(c.Packages))
	for i := range c.Packages {
		p := &c.Packages[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("package %d (%s): %w", i+1, p.Name, err)
		}
		key := p.DatasetCategory.Name + "\x00" + p.Name
		if _, ok := names[key]; ok {
			return fmt.Errorf("package %d: duplicate package '%s' in '%s'",
				i+1, p.Name, p.DatasetCategory.Name)
		}
		names[key] = struct{}{}
		for _, id := range p.Datasets {
			if _, ok := ids[id]; !ok {
				return fmt.Errorf(
					"package %d (%s): unknown dataset id '%s'", i+1, p.Name, id,
				)
			}
		}
	}
	return nil
}

// Validate checks required fields of a harvest descriptor. This is the
// only check done before a descriptor is inserted into the catalog.
// Returns warnings for non-fatal issues.
func (d *HarvestDescriptor) Validate() ([]ValidationWarning, error) {
	var warnings []ValidationWarning

	d.ID = strings.TrimSpace(d.ID)
	if d.ID == "" {
		return nil, fmt.Errorf("id is required")
	}

	if d.Kind == "" {
		d.Kind = d.kind()
	}
	switch d.Kind {
	case KindFile:
		if len(d.URI) == 0 {
			return nil, fmt.Errorf("uri is required for kind 'file'")
		}
		if d.Folder != "" || len(d.Files) > 0 {
			return nil, fmt.Errorf(
				"folder and files cannot be used with kind 'file'",
			)
		}
	case KindFolder:
		if d.Folder == "" {
			return nil, fmt.Errorf("folder is required for kind 'folder'")
		}
		if len(d.Files) == 0 {
			return nil, fmt.Errorf("files are required for kind 'folder'")
		}
		if len(d.URI) > 0 {
			return nil, fmt.Errorf("uri cannot be used with kind 'folder'")
		}
	default:
		return nil, fmt.Errorf(
			"invalid kind '%s': must be 'file' or 'folder'", d.Kind,
		)
	}

	uris := d.URIs()
	for i, u := range uris {
		if strings.TrimSpace(u) == "" {
			return nil, fmt.Errorf("location %d is empty", i+1)
		}
		if slices.Contains(uris[:i], u) {
			return nil, fmt.Errorf("location '%s' is listed twice", u)
		}
	}

	if d.Type != schema.FieldTypeVariable && d.Type != schema.FieldTypeIndex {
		return nil, fmt.Errorf(
			"invalid type '%s': must be 'variable' or 'index'", d.Type,
		)
	}

	if d.DatasetCategory.Name == "" {
		return nil, fmt.Errorf("dataset_category name is required")
	}
	if d.Dataset.Name == "" {
		return nil, fmt.Errorf("dataset name is required")
	}

	if len(d.Variables) == 0 {
		return nil, fmt.Errorf("at least one variable is required")
	}
	for i, v := range d.Variables {
		if v == "" {
			return nil, fmt.Errorf("variable %d is empty", i+1)
		}
		if slices.Contains(d.Variables[:i], v) {
			return nil, fmt.Errorf("variable '%s' is listed twice", v)
		}
	}

	if len(d.CleanUnits) != len(d.Variables) {
		return nil, fmt.Errorf(
			"clean_units has %d entries, expected %d (one per variable)",
			len(d.CleanUnits), len(d.Variables),
		)
	}
	if len(d.CleanVariable) != len(d.Variables) {
		return nil, fmt.Errorf(
			"clean_variable has %d entries, expected %d (one per variable)",
			len(d.CleanVariable), len(d.Variables),
		)
	}
	for i := range d.Variables {
		if err := d.CleanUnits[i].validate(); err != nil {
			return nil, fmt.Errorf("clean_units %d: %w", i+1, err)
		}
		if err := d.CleanVariable[i].validate(); err != nil {
			return nil, fmt.Errorf("clean_variable %d: %w", i+1, err)
		}
		if d.CleanVariable[i].Description == "" {
			warnings = append(warnings, ValidationWarning{
				DescriptorID: d.ID,
				Field:        "clean_variable",
				Message: fmt.Sprintf(
					"'%s' has no description", d.CleanVariable[i].StandardName,
				),
			})
		}
	}

	if d.DatasetCategory.Description == "" || d.Dataset.Description == "" {
		warnings = append(warnings, ValidationWarning{
			DescriptorID: d.ID,
			Field:        "dataset",
			Message:      "dataset or category description is empty",
		})
	}

	return warnings, nil
}

func (v Vocabulary) validate() error {
	if v.StandardName == "" {
		return fmt.Errorf("standard_name is required")
	}
	if v.LongName == "" {
		return fmt.Errorf("long_name is required")
	}
	return nil
}

// Validate checks required fields of a package descriptor.
func (p *PackageDescriptor) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.DatasetCategory.Name == "" {
		return fmt.Errorf("dataset_category name is required")
	}
	if len(p.Datasets) == 0 {
		return fmt.Errorf("at least one dataset id is required")
	}
	for i, id := range p.Datasets {
		if slices.Contains(p.Datasets[:i], id) {
			return fmt.Errorf("dataset id '%s' is listed twice", id)
		}
	}
	return nil
}

// Select returns harvest descriptors with given IDs, keeping catalog
// order. Empty ids select all descriptors.
func (c *CatalogConfig) Select(ids []string) ([]HarvestDescriptor, error) {
	if len(ids) == 0 {
		return c.Datasets, nil
	}
	for _, id := range ids {
		if _, ok := c.Dataset(id); !ok {
			return nil, fmt.Errorf("unknown dataset id '%s'", id)
		}
	}
	var res []HarvestDescriptor
	for _, d := range c.Datasets {
		if slices.Contains(ids, d.ID) {
			res = append(res, d)
		}
	}
	return res, nil
}

// IsURL checks if a location is a http(s) URL.
func IsURL(str string) bool {
	u, err := url.Parse(str)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}
