package iotesting

import (
	"io"
	"maps"
	"os"
	"slices"
	"testing"

	"github.com/ctessum/cdf"
)

// NetCDF describes a small CF file for tests. Only coordinates are
// written, values of the data variable are left out.
type NetCDF struct {
	Variable string
	Attrs    map[string]string

	TimeUnits string
	// Calendar is not written when empty.
	Calendar   string
	Times      []float64
	TimeBounds bool

	Levels     []float64
	Lats, Lons []float64

	// Proj4 is written to a grid_mapping variable when not empty.
	Proj4 string
}

// WriteNetCDF writes a NetCDF-3 classic file to path.
func WriteNetCDF(t *testing.T, path string, nc NetCDF) {
	t.Helper()

	dims := []string{"time", "lat", "lon"}
	lengths := []int{len(nc.Times), len(nc.Lats), len(nc.Lons)}
	dataDims := []string{"time", "lat", "lon"}
	if len(nc.Levels) > 0 {
		dims = append(dims, "lev")
		lengths = append(lengths, len(nc.Levels))
		dataDims = []string{"time", "lev", "lat", "lon"}
	}
	dims = append(dims, "bnds", "one")
	lengths = append(lengths, 2, 1)

	h := cdf.NewHeader(dims, lengths)

	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", nc.TimeUnits)
	h.AddAttribute("time", "axis", "T")
	if nc.Calendar != "" {
		h.AddAttribute("time", "calendar", nc.Calendar)
	}
	if nc.TimeBounds {
		h.AddAttribute("time", "bounds", "time_bnds")
		h.AddVariable("time_bnds", []string{"time", "bnds"}, []float64{0})
	}

	if len(nc.Levels) > 0 {
		h.AddVariable("lev", []string{"lev"}, []float64{0})
		h.AddAttribute("lev", "axis", "Z")
	}

	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddAttribute("lat", "standard_name", "latitude")
	h.AddAttribute("lat", "units", "degrees_north")

	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddAttribute("lon", "units", "degrees_east")

	if nc.Proj4 != "" {
		h.AddVariable("crs", []string{"one"}, []int32{0})
		h.AddAttribute("crs", "proj4", nc.Proj4)
	}

	h.AddVariable(nc.Variable, dataDims, []float32{0})
	for _, k := range slices.Sorted(maps.Keys(nc.Attrs)) {
		h.AddAttribute(nc.Variable, k, nc.Attrs[k])
	}
	if nc.Proj4 != "" {
		h.AddAttribute(nc.Variable, "grid_mapping", "crs")
	}

	h.Define()
	for _, err := range h.Check() {
		t.Fatalf("Bad NetCDF header: %v", err)
	}

	ff, err := os.Create(path)
	if err != nil {
		t.Fatalf("Cannot create %s: %v", path, err)
	}
	defer ff.Close()

	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatalf("Cannot write header of %s: %v", path, err)
	}

	write := func(v string, vals any) {
		end := f.Header.Lengths(v)
		start := make([]int, len(end))
		// the writer reports io.EOF once the last element is written
		if _, err := f.Writer(v, start, end).Write(vals); err != nil && err != io.EOF {
			t.Fatalf("Cannot write %s to %s: %v", v, path, err)
		}
	}
	write("time", nc.Times)
	if nc.TimeBounds {
		bnds := make([]float64, 0, 2*len(nc.Times))
		step := 1.0
		if len(nc.Times) > 1 {
			step = nc.Times[1] - nc.Times[0]
		}
		for _, v := range nc.Times {
			bnds = append(bnds, v-step/2, v+step/2)
		}
		write("time_bnds", bnds)
	}
	if len(nc.Levels) > 0 {
		write("lev", nc.Levels)
	}
	write("lat", nc.Lats)
	write("lon", nc.Lons)
	if nc.Proj4 != "" {
		write("crs", []int32{0})
	}
}

// Steps returns n values starting at start with a given step.
func Steps(start, step float64, n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = start + float64(i)*step
	}
	return res
}

// CanCM4NetCDF describes a file with the coordinates of the CanCM4
// decadal run: 3650 days of the 365_day calendar on a 64x128 grid.
// Its metadata matches CanCM4Record.
func CanCM4NetCDF() NetCDF {
	return NetCDF{
		Variable: "tas",
		Attrs: map[string]string{
			"standard_name": "air_temperature",
			"long_name":     "Near-Surface Air Temperature",
			"units":         "K",
		},
		TimeUnits:  "days since 1850-1-1",
		Calendar:   "365_day",
		Times:      Steps(55115.5, 1, 3650),
		TimeBounds: true,
		Lats:       Steps(-88.59375, 2.8125, 64),
		Lons:       Steps(0, 2.8125, 128),
	}
}
