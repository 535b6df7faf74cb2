package iometa

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/wkt"
	"github.com/ctessum/geom/proj"
	"github.com/ncpp/dscat/pkg/metadata"
)

// DefaultProj4 is used when a file does not declare its projection.
const DefaultProj4 = "+proj=longlat +ellps=WGS84 +towgs84=0,0,0,0,0,0,0 +no_defs"

// projection attributes of a CF grid_mapping variable, in order of
// preference.
var projAttrs = []string{"proj4", "proj4text", "proj4_params", "crs_wkt", "spatial_ref"}

// projection returns the PROJ4 or WKT string of variable v. A non-empty
// override wins over the file.
func (f *ncFile) projection(v, override string) (string, error) {
	res := override
	if res == "" {
		if gm, ok := f.stringAttr(v, "grid_mapping"); ok && f.hasVar(gm) {
			for _, a := range projAttrs {
				if s, ok := f.stringAttr(gm, a); ok {
					res = s
					break
				}
			}
		}
	}
	if res == "" {
		res = DefaultProj4
	}

	if _, err := proj.Parse(res); err != nil {
		return "", fmt.Errorf("invalid projection of %s: %w", v, err)
	}
	return res, nil
}

// grid is a regular horizontal grid given by cell centers and optional
// cell bounds (two values per cell).
type grid struct {
	lats, lons           []float64
	latBounds, lonBounds []float64
}

func (g grid) hasBounds() bool {
	return len(g.latBounds) > 0 && len(g.lonBounds) > 0
}

func (g grid) abstraction() string {
	if len(g.lats) == 1 && len(g.lons) == 1 && !g.hasBounds() {
		return metadata.AbstractionPoint
	}
	return metadata.AbstractionPolygon
}

// rowRes and colRes are the mean cell sizes along latitude and
// longitude.
func (g grid) rowRes() float64 {
	return axisRes(g.lats, g.latBounds)
}

func (g grid) colRes() float64 {
	return axisRes(g.lons, g.lonBounds)
}

func axisRes(centers, bounds []float64) float64 {
	if len(centers) > 1 {
		return math.Abs(meanStep(centers))
	}
	if len(bounds) == 2 {
		return math.Abs(bounds[1] - bounds[0])
	}
	return 0
}

// resolution is the mean of row and column resolutions.
func (g grid) resolution() float64 {
	row, col := g.rowRes(), g.colRes()
	switch {
	case row == 0:
		return col
	case col == 0:
		return row
	}
	return (row + col) / 2
}

// bounds returns the extent of the grid. Without cell bounds, cells
// extend half a resolution around their centers.
func (g grid) bounds() *geom.Bounds {
	res := geom.NewBounds()
	if g.hasBounds() {
		res.Extend(&geom.Bounds{
			Min: geom.Point{X: slices.Min(g.lonBounds), Y: slices.Min(g.latBounds)},
			Max: geom.Point{X: slices.Max(g.lonBounds), Y: slices.Max(g.latBounds)},
		})
		return res
	}

	dy, dx := g.rowRes()/2, g.colRes()/2
	for _, y := range []float64{slices.Min(g.lats), slices.Max(g.lats)} {
		for _, x := range []float64{slices.Min(g.lons), slices.Max(g.lons)} {
			res.Extend(&geom.Bounds{
				Min: geom.Point{X: x - dx, Y: y - dy},
				Max: geom.Point{X: x + dx, Y: y + dy},
			})
		}
	}
	return res
}

// envelope renders the extent of the grid as WKT.
func (g grid) envelope() (string, error) {
	b := g.bounds()
	var shape geom.Geom = geom.Point{X: roundCoord(b.Min.X), Y: roundCoord(b.Min.Y)}
	if g.abstraction() != metadata.AbstractionPoint {
		x0, y0 := roundCoord(b.Min.X), roundCoord(b.Min.Y)
		x1, y1 := roundCoord(b.Max.X), roundCoord(b.Max.Y)
		shape = geom.Polygon{{
			{X: x0, Y: y0},
			{X: x0, Y: y1},
			{X: x1, Y: y1},
			{X: x1, Y: y0},
			{X: x0, Y: y0},
		}}
	}
	res, err := wkt.Encode(shape)
	if err != nil {
		return "", fmt.Errorf("cannot encode envelope: %w", err)
	}
	return string(res), nil
}

// roundCoord drops float noise beyond 1e-9.
func roundCoord(v float64) float64 {
	v = math.Round(v*1e9) / 1e9
	if v == 0 {
		v = 0 // no "-0"
	}
	return v
}

// formatFloat prints the shortest decimal form of a rounded value.
func formatFloat(v float64) string {
	return strconv.FormatFloat(roundCoord(v), 'f', -1, 64)
}

// meanStep is the mean difference between consecutive values.
func meanStep(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(vals); i++ {
		sum += vals[i] - vals[i-1]
	}
	return sum / float64(len(vals)-1)
}
