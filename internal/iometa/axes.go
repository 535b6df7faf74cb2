package iometa

import (
	"fmt"
	"slices"
	"strings"
)

// axes are the coordinate variables of a data variable. Level is empty
// for variables without a vertical dimension.
type axes struct {
	time, level, lat, lon string
}

var (
	timeNames  = []string{"time", "t"}
	levelNames = []string{"lev", "level", "plev", "height", "depth", "z"}
	latNames   = []string{"lat", "latitude", "y", "rlat", "yc"}
	lonNames   = []string{"lon", "longitude", "x", "rlon", "xc"}
)

// findAxes assigns a role to every dimension of variable v.
func (f *ncFile) findAxes(v string) (axes, error) {
	var res axes
	if !f.hasVar(v) {
		return res, fmt.Errorf("variable %s not found in %s", v, f.path)
	}

	for _, d := range f.dims(v) {
		var slot *string
		switch f.axisOf(d) {
		case "T":
			slot = &res.time
		case "Z":
			slot = &res.level
		case "Y":
			slot = &res.lat
		case "X":
			slot = &res.lon
		default:
			return res, fmt.Errorf(
				"cannot tell the role of dimension %s of %s", d, v,
			)
		}
		if *slot != "" {
			return res, fmt.Errorf("dimensions %s and %s of %s share a role",
				*slot, d, v)
		}
		*slot = d
	}

	switch {
	case res.time == "":
		return res, fmt.Errorf("variable %s has no time dimension", v)
	case res.lat == "" || res.lon == "":
		return res, fmt.Errorf("variable %s has no horizontal grid", v)
	}
	return res, nil
}

// axisOf detects the CF axis (T, Z, Y, X) of a dimension from its
// coordinate variable attributes, falling back to common names.
func (f *ncFile) axisOf(dim string) string {
	if f.hasVar(dim) {
		if axis, ok := f.stringAttr(dim, "axis"); ok {
			return strings.ToUpper(axis)
		}
		if sn, ok := f.stringAttr(dim, "standard_name"); ok {
			switch sn {
			case "time":
				return "T"
			case "latitude", "grid_latitude", "projection_y_coordinate":
				return "Y"
			case "longitude", "grid_longitude", "projection_x_coordinate":
				return "X"
			case "height", "depth", "air_pressure", "altitude":
				return "Z"
			}
		}
		if units, ok := f.stringAttr(dim, "units"); ok {
			switch {
			case strings.Contains(units, " since "):
				return "T"
			case strings.HasPrefix(units, "degrees_n"), units == "degree_N":
				return "Y"
			case strings.HasPrefix(units, "degrees_e"), units == "degree_E":
				return "X"
			}
		}
	}

	name := strings.ToLower(dim)
	switch {
	case slices.Contains(timeNames, name):
		return "T"
	case slices.Contains(levelNames, name):
		return "Z"
	case slices.Contains(latNames, name):
		return "Y"
	case slices.Contains(lonNames, name):
		return "X"
	}
	return ""
}

// bounds reads the cell bounds of a coordinate variable, if declared.
func (f *ncFile) bounds(coord string) ([]float64, error) {
	name, ok := f.stringAttr(coord, "bounds")
	if !ok || !f.hasVar(name) {
		return nil, nil
	}
	return f.readFloats(name)
}
