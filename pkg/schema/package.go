package schema

import (
	"cmp"
	"slices"
)

// NewDataPackage creates a DataPackage from fields with loaded containers.
// All containers must have the same FieldShape, otherwise
// PackageConsistencyError is returned. The time span of the package is
// the earliest start and the latest stop of member containers. Members
// keep the order of fields.
func NewDataPackage(
	name, description string,
	category DatasetCategory,
	fields []Field,
) (*DataPackage, error) {
	if len(fields) == 0 {
		return nil, EmptyPackageError(name)
	}

	shape := fields[0].Container.FieldShape
	res := &DataPackage{
		CategoryID:  category.ID,
		Category:    category,
		Name:        name,
		Description: description,
		TimeStart:   fields[0].Container.TimeStart,
		TimeStop:    fields[0].Container.TimeStop,
		Members:     make([]PackageField, 0, len(fields)),
	}

	for i, f := range fields {
		c := f.Container
		if c.FieldShape != shape {
			return nil, PackageConsistencyError(name, shape, c.FieldShape)
		}
		if c.TimeStart.Before(res.TimeStart) {
			res.TimeStart = c.TimeStart
		}
		if c.TimeStop.After(res.TimeStop) {
			res.TimeStop = c.TimeStop
		}
		res.Members = append(res.Members, PackageField{
			FieldID:  f.ID,
			Position: i,
			Field:    f,
		})
	}
	return res, nil
}

// Fields returns member fields in package order.
func (p *DataPackage) Fields() []Field {
	members := slices.Clone(p.Members)
	slices.SortStableFunc(members, func(a, b PackageField) int {
		return cmp.Compare(a.Position, b.Position)
	})
	res := make([]Field, len(members))
	for i := range members {
		res[i] = members[i].Field
	}
	return res
}
