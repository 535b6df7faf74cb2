package ioharvest

import (
	"fmt"
	"log/slog"

	"github.com/ncpp/dscat/pkg/descriptor"
	"github.com/ncpp/dscat/pkg/metadata"
	"github.com/ncpp/dscat/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreate returns the row matching non-zero fields of key. When
// there is no such row, it creates one from key and attrs. Existing rows
// are never updated. It runs in the transaction of the caller, so a
// created row is rolled back together with the rest of the unit.
func GetOrCreate[T any](tx *gorm.DB, key, attrs T) (*T, error) {
	var res T
	err := tx.Where(&key).Attrs(attrs).FirstOrCreate(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// InsertDataset writes a dataset descriptor with its metadata record.
// Category, dataset, clean units and clean variable rows are reused by
// natural key. A new Container with its URIs and one Field per variable
// is created on every call, so inserting the same descriptor twice
// duplicates them.
func InsertDataset(
	tx *gorm.DB,
	d descriptor.HarvestDescriptor,
	rec *metadata.Record,
) (*schema.Container, error) {
	freq, err := schema.TimeFrequency(rec.TimeResolutionDays)
	if err != nil {
		return nil, err
	}

	cat, err := GetOrCreate(tx,
		schema.DatasetCategory{Name: d.DatasetCategory.Name},
		schema.DatasetCategory{Description: d.DatasetCategory.Description},
	)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", d.DatasetCategory.Name, err)
	}

	ds, err := GetOrCreate(tx,
		schema.Dataset{Name: d.Dataset.Name},
		schema.Dataset{CategoryID: cat.ID, Description: d.Dataset.Description},
	)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", d.Dataset.Name, err)
	}
	if ds.CategoryID != cat.ID {
		slog.Warn("Dataset belongs to another category, keeping it there",
			"dataset", ds.Name, "category", d.DatasetCategory.Name)
		cat = &schema.DatasetCategory{}
		if err = tx.First(cat, ds.CategoryID).Error; err != nil {
			return nil, fmt.Errorf("category of dataset %s: %w", ds.Name, err)
		}
	}

	c := schema.Container{
		DatasetID:          ds.ID,
		TimeStart:          rec.TimeStart.UTC(),
		TimeStop:           rec.TimeStop.UTC(),
		TimeResolutionDays: rec.TimeResolutionDays,
		TimeFrequency:      freq,
		TimeUnits:          rec.TimeUnits,
		TimeCalendar:       rec.TimeCalendar,
		SpatialAbstraction: rec.SpatialAbstraction,
		SpatialEnvelope:    rec.SpatialEnvelope,
		SpatialResolution:  rec.SpatialResolution,
		SpatialProjection:  rec.SpatialProj4,
		FieldShape:         rec.FieldShape(),
	}
	if err = tx.Omit(clause.Associations).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("container: %w", err)
	}

	uris := d.URIs()
	c.URIs = make([]schema.Uri, len(uris))
	for i, u := range uris {
		c.URIs[i] = schema.Uri{ContainerID: c.ID, Value: u, Position: i}
	}
	if err = tx.Create(&c.URIs).Error; err != nil {
		return nil, fmt.Errorf("uris: %w", err)
	}

	c.Fields = make([]schema.Field, 0, len(d.Variables))
	for i, v := range d.Variables {
		f, err := insertField(tx, d, i, c.ID, rec)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", v, err)
		}
		c.Fields = append(c.Fields, *f)
	}

	c.Dataset = *ds
	c.Dataset.Category = *cat
	return &c, nil
}

func insertField(
	tx *gorm.DB,
	d descriptor.HarvestDescriptor,
	idx int,
	containerID int64,
	rec *metadata.Record,
) (*schema.Field, error) {
	cu := d.CleanUnits[idx]
	units, err := GetOrCreate(tx,
		schema.CleanUnits{StandardName: cu.StandardName},
		schema.CleanUnits{
			LongName:    cu.LongName,
			Description: schema.NullString(cu.Description, cu.Description != ""),
		},
	)
	if err != nil {
		return nil, err
	}

	cv := d.CleanVariable[idx]
	variable, err := GetOrCreate(tx,
		schema.CleanVariable{StandardName: cv.StandardName},
		schema.CleanVariable{
			LongName:    cv.LongName,
			Description: schema.NullString(cv.Description, cv.Description != ""),
		},
	)
	if err != nil {
		return nil, err
	}

	name := d.Variables[idx]
	res := schema.Field{
		ContainerID:     containerID,
		CleanUnitsID:    units.ID,
		CleanVariableID: variable.ID,
		Name:            name,
		Type:            d.Type,
		StandardName:    schema.NullString(rec.Attr(name, "standard_name")),
		LongName:        schema.NullString(rec.Attr(name, "long_name")),
		Units:           schema.NullString(rec.Attr(name, "units")),
	}
	if err = tx.Omit(clause.Associations).Create(&res).Error; err != nil {
		return nil, err
	}
	res.CleanUnits = *units
	res.CleanVariable = *variable
	return &res, nil
}

type fieldKey struct {
	uri, variable string
}

// InsertPackage writes a package descriptor. Members are the harvest
// descriptors of pd.Datasets in the same order. Every (first uri,
// variable) pair of the members must resolve to a Field in the catalog.
// When a dataset was harvested more than once, the latest Field is used.
func InsertPackage(
	tx *gorm.DB,
	pd descriptor.PackageDescriptor,
	members []descriptor.HarvestDescriptor,
) (*schema.DataPackage, error) {
	cat, err := GetOrCreate(tx,
		schema.DatasetCategory{Name: pd.DatasetCategory.Name},
		schema.DatasetCategory{Description: pd.DatasetCategory.Description},
	)
	if err != nil {
		return nil, PackageInsertError(pd.Name, err)
	}

	var expected []fieldKey
	for _, m := range members {
		uris := m.URIs()
		if len(uris) == 0 {
			continue
		}
		for _, v := range m.Variables {
			expected = append(expected, fieldKey{uri: uris[0], variable: v})
		}
	}

	ids, err := resolveFields(tx, expected)
	if err != nil {
		return nil, PackageInsertError(pd.Name, err)
	}

	if len(ids) != len(expected) {
		var missing []string
		for _, k := range expected {
			if _, ok := ids[k]; !ok {
				missing = append(missing, k.uri+" "+k.variable)
			}
		}
		return nil, PackageResolutionMismatchError(
			pd.Name, len(expected), len(ids), missing,
		)
	}

	fieldIDs := make([]int64, len(expected))
	for i, k := range expected {
		fieldIDs[i] = ids[k]
	}
	var found []schema.Field
	err = tx.Preload("Container").Where("id IN ?", fieldIDs).Find(&found).Error
	if err != nil {
		return nil, PackageInsertError(pd.Name, err)
	}
	byID := make(map[int64]schema.Field, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	fields := make([]schema.Field, len(fieldIDs))
	for i, id := range fieldIDs {
		fields[i] = byID[id]
	}

	res, err := schema.NewDataPackage(pd.Name, pd.Description, *cat, fields)
	if err != nil {
		return nil, err
	}

	if err = tx.Omit(clause.Associations).Create(res).Error; err != nil {
		return nil, PackageInsertError(pd.Name, err)
	}
	for i := range res.Members {
		res.Members[i].DataPackageID = res.ID
	}
	err = tx.Omit(clause.Associations).Create(&res.Members).Error
	if err != nil {
		return nil, PackageInsertError(pd.Name, err)
	}
	return res, nil
}

// resolveFields finds Field ids by the location of their container and
// their name, joining field, container and uri.
func resolveFields(
	tx *gorm.DB,
	keys []fieldKey,
) (map[fieldKey]int64, error) {
	res := make(map[fieldKey]int64, len(keys))
	if len(keys) == 0 {
		return res, nil
	}

	want := make(map[fieldKey]struct{}, len(keys))
	uris := make([]string, 0, len(keys))
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
		uris = append(uris, k.uri)
		names = append(names, k.variable)
	}

	type row struct {
		FieldID int64
		URI     string
		Name    string
	}
	var rows []row
	err := tx.Table("field").
		Select("field.id AS field_id, uri.value AS uri, field.name AS name").
		Joins("JOIN container ON container.id = field.container_id").
		Joins("JOIN uri ON uri.container_id = container.id").
		Where("uri.value IN ? AND field.name IN ?", uris, names).
		Order("field.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		k := fieldKey{uri: r.URI, variable: r.Name}
		if _, ok := want[k]; ok {
			res[k] = r.FieldID
		}
	}
	return res, nil
}
