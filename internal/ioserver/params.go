package ioserver

import (
	"fmt"
	"net/url"

	"github.com/ncpp/dscat/pkg/query"
)

// timeRange reads "start" and "stop". Both are required when one is
// given.
func timeRange(v url.Values) (*query.TimeRange, error) {
	start, stop := v.Get("start"), v.Get("stop")
	if start == "" && stop == "" {
		return nil, nil
	}
	if start == "" || stop == "" {
		return nil, fmt.Errorf("time range needs both start and stop")
	}
	var res query.TimeRange
	var err error
	if res.Start, err = query.ParseDate(start); err != nil {
		return nil, err
	}
	if res.Stop, err = query.ParseDate(stop); err != nil {
		return nil, err
	}
	return &res, nil
}

func fieldFilter(v url.Values) (query.FieldFilter, error) {
	res := query.FieldFilter{
		Kind:            v.Get("kind"),
		LongName:        v.Get("long_name"),
		TimeFrequency:   v.Get("time_frequency"),
		DatasetCategory: v.Get("dataset_category"),
		Dataset:         v.Get("dataset"),
	}
	if res.Kind == "" {
		res.Kind = query.KindVariable
	}
	var err error
	res.TimeRange, err = timeRange(v)
	return res, err
}

func packageFilter(v url.Values) (query.PackageFilter, error) {
	res := query.PackageFilter{
		Category:    v.Get("category"),
		PackageName: v.Get("name"),
	}
	var err error
	res.TimeRange, err = timeRange(v)
	return res, err
}
