package iotesting

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/ncpp/dscat/pkg/descriptor"
	"github.com/ncpp/dscat/pkg/metadata"
)

// StubExtractor returns prepared records keyed by the first URI of a
// request. It counts calls and is safe for concurrent use.
type StubExtractor struct {
	mu      sync.Mutex
	records map[string]metadata.Record
	calls   int
}

// NewStubExtractor creates an extractor that knows the test datasets of
// Datasets().
func NewStubExtractor() *StubExtractor {
	return &StubExtractor{
		records: map[string]metadata.Record{
			CanCM4URI:       CanCM4Record(),
			MaurerTasURI:    MaurerRecord("tas", "Near-Surface Air Temperature"),
			MaurerTasmaxURI: MaurerRecord("tasmax", "Near-Surface Maximum Air Temperature"),
		},
	}
}

// Add registers a record for a URI.
func (s *StubExtractor) Add(uri string, rec metadata.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[uri] = rec
}

// Calls returns the number of Extract calls.
func (s *StubExtractor) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Extract implements metadata.Extractor.
func (s *StubExtractor) Extract(
	ctx context.Context,
	req metadata.Request,
) (*metadata.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if len(req.URIs) == 0 {
		return nil, fmt.Errorf("no uri given")
	}
	rec, ok := s.records[req.URIs[0]]
	if !ok {
		return nil, fmt.Errorf("cannot open %s", req.URIs[0])
	}
	if _, ok := rec.Variables[req.Variable]; !ok {
		return nil, fmt.Errorf("variable %s not found in %s",
			req.Variable, req.URIs[0])
	}
	if req.Calendar != "" {
		rec.TimeCalendar = req.Calendar
	}
	rec.Variables = maps.Clone(rec.Variables)
	return &rec, nil
}

// Locations of test datasets.
const (
	CanCM4URI       = "/data/cmip5/tas_day_CanCM4_decadal2000_r2i1p1_20010101-20101231.nc"
	MaurerTasURI    = "/data/maurer/concatenated/Maurer02new_OBS_tas_daily.1971-2000.nc"
	MaurerTasmaxURI = "/data/maurer/concatenated/Maurer02new_OBS_tasmax_daily.1971-2000.nc"
)

// CanCM4Record is the metadata of the CanCM4 test file.
func CanCM4Record() metadata.Record {
	return metadata.Record{
		TimeStart:          time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		TimeStop:           time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
		TimeResolutionDays: 1.0,
		TimeCalendar:       "365_day",
		TimeUnits:          "days since 1850-1-1",
		SpatialAbstraction: metadata.AbstractionPolygon,
		SpatialEnvelope: "POLYGON((-1.40625 -90,-1.40625 90," +
			"358.59375 90,358.59375 -90,-1.40625 -90))",
		SpatialResolution: "2.8125",
		SpatialProj4:      "+proj=longlat +ellps=WGS84 +towgs84=0,0,0,0,0,0,0 +no_defs",
		Shape:             []int{1, 3650, 1, 64, 128},
		Variables: map[string]metadata.VariableMeta{
			"tas": {Attrs: map[string]string{
				"standard_name": "air_temperature",
				"long_name":     "Near-Surface Air Temperature",
				"units":         "K",
			}},
		},
	}
}

// MaurerRecord is the metadata of a Maurer 2010 test file. The units
// attribute is absent.
func MaurerRecord(variable, longName string) metadata.Record {
	return metadata.Record{
		TimeStart:          time.Date(1971, 1, 1, 0, 0, 0, 0, time.UTC),
		TimeStop:           time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC),
		TimeResolutionDays: 1.0,
		TimeCalendar:       "standard",
		TimeUnits:          "days since 1940-01-01 00:00:00",
		SpatialAbstraction: metadata.AbstractionPolygon,
		SpatialEnvelope: "POLYGON((-124.6875 25.0625,-124.6875 52.9375," +
			"-67.0625 52.9375,-67.0625 25.0625,-124.6875 25.0625))",
		SpatialResolution: "0.125",
		SpatialProj4:      "+proj=longlat +ellps=WGS84 +towgs84=0,0,0,0,0,0,0 +no_defs",
		Shape:             []int{1, 10958, 1, 222, 462},
		Variables: map[string]metadata.VariableMeta{
			variable: {Attrs: map[string]string{
				"long_name": longName,
			}},
		},
	}
}

// Datasets returns harvest descriptors of the test datasets:
// "cancm4-tas", "maurer-tas" and "maurer-tasmax".
func Datasets() []descriptor.HarvestDescriptor {
	celsius := []descriptor.Vocabulary{{StandardName: "C", LongName: "Celsius"}}
	maurerCat := descriptor.Named{
		Name: "Observational", Description: "Some observational datasets.",
	}
	maurer := descriptor.Named{Name: "Maurer 2010", Description: "Amazing dataset!"}

	return []descriptor.HarvestDescriptor{
		{
			ID:   "cancm4-tas",
			Kind: descriptor.KindFile,
			URI:  []string{CanCM4URI},
			Type: "variable",
			DatasetCategory: descriptor.Named{
				Name: "GCMs", Description: "Global Circulation Models",
			},
			Dataset: descriptor.Named{
				Name: "CanCM4", Description: "Canadian Circulation Model 4",
			},
			Variables:  []string{"tas"},
			CleanUnits: []descriptor.Vocabulary{{StandardName: "K", LongName: "Kelvin"}},
			CleanVariable: []descriptor.Vocabulary{{
				StandardName: "air_temperature",
				LongName:     "Near-Surface Air Temperature",
				Description:  "Fill it in!",
			}},
		},
		{
			ID:              "maurer-tas",
			Kind:            descriptor.KindFile,
			URI:             []string{MaurerTasURI},
			Type:            "variable",
			DatasetCategory: maurerCat,
			Dataset:         maurer,
			Variables:       []string{"tas"},
			CleanUnits:      celsius,
			CleanVariable: []descriptor.Vocabulary{{
				StandardName: "air_temperature",
				LongName:     "Near-Surface Air Temperature",
				Description:  "Fill it in!",
			}},
		},
		{
			ID:              "maurer-tasmax",
			Kind:            descriptor.KindFile,
			URI:             []string{MaurerTasmaxURI},
			Type:            "variable",
			DatasetCategory: maurerCat,
			Dataset:         maurer,
			Variables:       []string{"tasmax"},
			CleanUnits:      celsius,
			CleanVariable: []descriptor.Vocabulary{{
				StandardName: "maximum_air_temperature",
				LongName:     "Near-Surface Maximum Air Temperature",
				Description:  "Fill it in!",
			}},
		},
	}
}

// Dataset returns one of Datasets() by ID.
func Dataset(id string) descriptor.HarvestDescriptor {
	for _, d := range Datasets() {
		if d.ID == id {
			return d
		}
	}
	panic("unknown test dataset " + id)
}
