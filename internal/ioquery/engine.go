// Package ioquery implements the query.Engine interface over the catalog
// store.
package ioquery

import (
	"context"

	"github.com/ncpp/dscat/pkg/db"
	"github.com/ncpp/dscat/pkg/query"
	"github.com/ncpp/dscat/pkg/schema"
	"gorm.io/gorm"
)

type engine struct {
	operator db.Operator
}

// New creates a query engine. The operator must be connected before the
// first query.
func New(op db.Operator) query.Engine {
	return &engine{operator: op}
}

type packageRow struct {
	PackageID       int64
	PackageName     string
	DatasetCategory string
}

// ResolvePackage implements query.Engine.
func (e *engine) ResolvePackage(
	ctx context.Context,
	f query.PackageFilter,
) (*query.PackageResult, error) {
	if err := f.Validate(); err != nil {
		return nil, ArgumentError(err)
	}
	gdb := e.operator.DB()
	if gdb == nil {
		return nil, NotConnectedError()
	}
	gdb = gdb.WithContext(ctx)

	q := gdb.Table("package").
		Select("package.id AS package_id, package.name AS package_name, " +
			"category.name AS dataset_category").
		Joins("JOIN category ON category.id = package.category_id")
	if f.Category != "" {
		q = q.Where("category.name = ?", f.Category)
	}
	if f.PackageName != "" {
		q = q.Where("package.name = ?", f.PackageName)
	}
	q = withinRange(q, "package", f.TimeRange)

	var rows []packageRow
	if err := q.Order("package.id").Scan(&rows).Error; err != nil {
		return nil, ExecutionError(err)
	}

	switch len(rows) {
	case 0:
		return nil, NoResultError("package", f)
	case 1:
		var p schema.DataPackage
		err := gdb.Preload("Members.Field.Container.URIs").
			First(&p, rows[0].PackageID).Error
		if err != nil {
			return nil, ExecutionError(err)
		}
		fields := p.Fields()
		res := &query.PackageResult{
			Status:   query.Resolved,
			Datasets: make([]query.RequestDataset, len(fields)),
		}
		for i := range fields {
			res.Datasets[i] = fields[i].RequestDataset()
		}
		return res, nil
	}

	opts := &query.PackageOptions{}
	for _, r := range rows {
		opts.DatasetCategory = append(opts.DatasetCategory, r.DatasetCategory)
		opts.PackageName = append(opts.PackageName, r.PackageName)
	}
	opts.DatasetCategory = query.Distinct(opts.DatasetCategory)
	opts.PackageName = query.Distinct(opts.PackageName)
	return &query.PackageResult{Status: query.Ambiguous, Options: opts}, nil
}

type fieldRow struct {
	FieldID         int64
	LongName        string
	TimeFrequency   string
	Dataset         string
	DatasetCategory string
}

// ResolveVariableOrIndex implements query.Engine.
func (e *engine) ResolveVariableOrIndex(
	ctx context.Context,
	f query.FieldFilter,
) (*query.FieldResult, error) {
	if err := f.Validate(); err != nil {
		return nil, ArgumentError(err)
	}
	gdb := e.operator.DB()
	if gdb == nil {
		return nil, NotConnectedError()
	}
	gdb = gdb.WithContext(ctx)

	q := gdb.Table("field").
		Select("field.id AS field_id, " +
			"clean_variable.long_name AS long_name, " +
			"container.time_frequency AS time_frequency, " +
			"dataset.name AS dataset, " +
			"category.name AS dataset_category").
		Joins("JOIN clean_variable ON clean_variable.id = field.clean_variable_id").
		Joins("JOIN container ON container.id = field.container_id").
		Joins("JOIN dataset ON dataset.id = container.dataset_id").
		Joins("JOIN category ON category.id = dataset.category_id").
		Where("field.type = ?", f.Kind)
	if f.LongName != "" {
		q = q.Where("clean_variable.long_name = ?", f.LongName)
	}
	if f.TimeFrequency != "" {
		q = q.Where("container.time_frequency = ?", f.TimeFrequency)
	}
	if f.DatasetCategory != "" {
		q = q.Where("category.name = ?", f.DatasetCategory)
	}
	if f.Dataset != "" {
		q = q.Where("dataset.name = ?", f.Dataset)
	}
	q = withinRange(q, "container", f.TimeRange)

	var rows []fieldRow
	if err := q.Order("field.id").Scan(&rows).Error; err != nil {
		return nil, ExecutionError(err)
	}

	switch len(rows) {
	case 0:
		return nil, NoResultError(f.Kind, f)
	case 1:
		var fld schema.Field
		err := gdb.Preload("Container.URIs").First(&fld, rows[0].FieldID).Error
		if err != nil {
			return nil, ExecutionError(err)
		}
		rd := fld.RequestDataset()
		return &query.FieldResult{Status: query.Resolved, Dataset: &rd}, nil
	}

	opts := &query.FieldOptions{}
	for _, r := range rows {
		opts.LongName = append(opts.LongName, r.LongName)
		opts.TimeFrequency = append(opts.TimeFrequency, r.TimeFrequency)
		opts.DatasetCategory = append(opts.DatasetCategory, r.DatasetCategory)
		opts.Dataset = append(opts.Dataset, r.Dataset)
	}
	opts.LongName = query.Distinct(opts.LongName)
	opts.TimeFrequency = query.Distinct(opts.TimeFrequency)
	opts.DatasetCategory = query.Distinct(opts.DatasetCategory)
	opts.Dataset = query.Distinct(opts.Dataset)
	return &query.FieldResult{Status: query.Ambiguous, Options: opts}, nil
}

// withinRange keeps rows of table whose [time_start, time_stop] contains
// the start or the stop of tr.
func withinRange(q *gorm.DB, table string, tr *query.TimeRange) *gorm.DB {
	if tr == nil {
		return q
	}
	start, stop := tr.Start.UTC(), tr.Stop.UTC()
	return q.Where(
		"(("+table+".time_start <= ? AND "+table+".time_stop >= ?) OR ("+
			table+".time_start <= ? AND "+table+".time_stop >= ?))",
		start, start, stop, stop,
	)
}
