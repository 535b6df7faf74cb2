// Package iometa implements metadata.Extractor for NetCDF-3 classic
// files that follow the CF conventions.
//
// A dataset may be split over several files along the time axis. Files
// are read in the given order: the horizontal grid, projection and
// variable attributes come from the first file, time steps of all files
// are concatenated.
package iometa

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ncpp/dscat/pkg/descriptor"
	"github.com/ncpp/dscat/pkg/metadata"
)

type extractor struct{}

// New creates a NetCDF metadata extractor.
func New() metadata.Extractor {
	return &extractor{}
}

// filePart is the metadata of one file of a dataset.
type filePart struct {
	units        string
	calendarName string

	// times and timeBounds are day numbers of the calendar.
	times      []float64
	timeBounds []float64

	nLevel                           int
	lats, lons, latBounds, lonBounds []float64

	proj4     string
	variables map[string]metadata.VariableMeta
}

// Extract reads metadata of req.Variable from all files of req.URIs.
func (e *extractor) Extract(
	ctx context.Context,
	req metadata.Request,
) (*metadata.Record, error) {
	if len(req.URIs) == 0 {
		return nil, fmt.Errorf("no file locations given")
	}
	if req.Variable == "" {
		return nil, fmt.Errorf("no variable given")
	}

	var first *filePart
	var times, timeBounds []float64
	allBounds := true
	for _, uri := range req.URIs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if descriptor.IsURL(uri) {
			return nil, fmt.Errorf("remote location %s is not supported", uri)
		}

		slog.Debug("Reading metadata", "uri", uri, "variable", req.Variable)
		part, err := readPart(uri, req)
		if err != nil {
			return nil, err
		}

		if first == nil {
			first = part
		} else if err = sameGrid(first, part, uri); err != nil {
			return nil, err
		}

		times = append(times, part.times...)
		if len(part.timeBounds) == 0 {
			allBounds = false
		}
		timeBounds = append(timeBounds, part.timeBounds...)
	}

	if len(times) == 0 {
		return nil, fmt.Errorf("variable %s has no time steps", req.Variable)
	}
	if !allBounds {
		timeBounds = nil
	}

	cal, err := newCalendar(first.calendarName)
	if err != nil {
		return nil, err
	}

	res := metadata.Record{
		TimeCalendar: first.calendarName,
		TimeUnits:    first.units,
		SpatialProj4: first.proj4,
		Shape: []int{
			1, len(times), first.nLevel, len(first.lats), len(first.lons),
		},
		Variables: first.variables,
	}

	extent := times
	if len(timeBounds) > 0 {
		extent = timeBounds
	}
	res.TimeStart = cal.date(slices.Min(extent))
	res.TimeStop = cal.date(slices.Max(extent))

	res.TimeResolutionDays, err = timeResolution(times, timeBounds)
	if err != nil {
		return nil, err
	}

	g := grid{
		lats:      first.lats,
		lons:      first.lons,
		latBounds: first.latBounds,
		lonBounds: first.lonBounds,
	}
	res.SpatialAbstraction = g.abstraction()
	if res.SpatialEnvelope, err = g.envelope(); err != nil {
		return nil, err
	}
	res.SpatialResolution = formatFloat(g.resolution())

	return &res, nil
}

func readPart(path string, req metadata.Request) (*filePart, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ax, err := f.findAxes(req.Variable)
	if err != nil {
		return nil, err
	}

	res := filePart{nLevel: 1}

	res.units = req.Units
	if res.units == "" {
		var ok bool
		if res.units, ok = f.stringAttr(ax.time, "units"); !ok {
			return nil, fmt.Errorf("time coordinate of %s has no units", path)
		}
	}
	res.calendarName = req.Calendar
	if res.calendarName == "" {
		var ok bool
		if res.calendarName, ok = f.stringAttr(ax.time, "calendar"); !ok {
			res.calendarName = "standard"
		}
	}

	cal, err := newCalendar(res.calendarName)
	if err != nil {
		return nil, err
	}
	tu, err := parseTimeUnits(res.units, cal)
	if err != nil {
		return nil, err
	}

	if res.times, err = f.coordinate(ax.time, req.Variable); err != nil {
		return nil, err
	}
	for i := range res.times {
		res.times[i] = tu.dayNumber(res.times[i])
	}
	if res.timeBounds, err = f.bounds(ax.time); err != nil {
		return nil, err
	}
	for i := range res.timeBounds {
		res.timeBounds[i] = tu.dayNumber(res.timeBounds[i])
	}

	if ax.level != "" {
		dims := f.dims(req.Variable)
		ls := f.lengths(req.Variable)
		res.nLevel = ls[slices.Index(dims, ax.level)]
	}

	if res.lats, err = f.coordinate(ax.lat, req.Variable); err != nil {
		return nil, err
	}
	if res.lons, err = f.coordinate(ax.lon, req.Variable); err != nil {
		return nil, err
	}
	if res.latBounds, err = f.bounds(ax.lat); err != nil {
		return nil, err
	}
	if res.lonBounds, err = f.bounds(ax.lon); err != nil {
		return nil, err
	}

	if res.proj4, err = f.projection(req.Variable, req.SpatialCRS); err != nil {
		return nil, err
	}

	res.variables = make(map[string]metadata.VariableMeta)
	dimNames := f.nc.Header.Dimensions("")
	for _, v := range f.nc.Header.Variables() {
		if slices.Contains(dimNames, v) {
			continue
		}
		res.variables[v] = metadata.VariableMeta{Attrs: f.stringAttrs(v)}
	}

	return &res, nil
}

// coordinate reads a one-dimensional coordinate variable of v.
func (f *ncFile) coordinate(name, v string) ([]float64, error) {
	if !f.hasVar(name) {
		return nil, fmt.Errorf("coordinate %s of %s is missing in %s",
			name, v, f.path)
	}
	if len(f.dims(name)) != 1 {
		return nil, fmt.Errorf("coordinate %s of %s is not one-dimensional",
			name, v)
	}
	return f.readFloats(name)
}

func sameGrid(first, part *filePart, uri string) error {
	if len(first.lats) != len(part.lats) || len(first.lons) != len(part.lons) ||
		first.nLevel != part.nLevel {
		return fmt.Errorf("grid of %s differs from the first file", uri)
	}
	if first.units != part.units || first.calendarName != part.calendarName {
		slog.Warn("Time units differ between files",
			"uri", uri, "units", part.units, "calendar", part.calendarName)
	}
	return nil
}

// timeResolution is the mean step between time values in days.
func timeResolution(times, bounds []float64) (float64, error) {
	if len(times) == 1 {
		if len(bounds) == 2 {
			return bounds[1] - bounds[0], nil
		}
		return 0, fmt.Errorf(
			"cannot compute time resolution from a single time step",
		)
	}
	return meanStep(times), nil
}
