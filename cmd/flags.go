/*
Copyright © 2025 NCPP developers

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"

	app "github.com/ncpp/dscat/pkg"
	"github.com/ncpp/dscat/pkg/query"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", app.Version, app.Build)
		os.Exit(0)
	}
}

// filterFlags are query filters shared by query and submit commands.
type filterFlags struct {
	longName  string
	frequency string
	category  string
	dataset   string
	pkgName   string
	start     string
	stop      string
}

func (f *filterFlags) register(cmd *cobra.Command, withPackage bool) {
	fs := cmd.Flags()
	fs.StringVarP(&f.longName, "long-name", "l", "",
		"variable or index long name")
	fs.StringVarP(&f.frequency, "frequency", "t", "",
		"time frequency: day, month, year, decade")
	fs.StringVarP(&f.category, "category", "c", "",
		"dataset category")
	fs.StringVarP(&f.dataset, "dataset", "d", "",
		"dataset name")
	if withPackage {
		fs.StringVarP(&f.pkgName, "package", "p", "",
			"data package name")
	}
	fs.StringVar(&f.start, "start", "",
		"start of time range, YYYY-MM-DD")
	fs.StringVar(&f.stop, "stop", "",
		"end of time range, YYYY-MM-DD")
}

func (f *filterFlags) timeRange() (*query.TimeRange, error) {
	if f.start == "" && f.stop == "" {
		return nil, nil
	}
	if f.start == "" || f.stop == "" {
		return nil, fmt.Errorf("time range needs both --start and --stop")
	}
	start, err := query.ParseDate(f.start)
	if err != nil {
		return nil, err
	}
	stop, err := query.ParseDate(f.stop)
	if err != nil {
		return nil, err
	}
	return &query.TimeRange{Start: start, Stop: stop}, nil
}

func (f *filterFlags) fieldFilter(kind string) (query.FieldFilter, error) {
	tr, err := f.timeRange()
	if err != nil {
		return query.FieldFilter{}, err
	}
	return query.FieldFilter{
		Kind:            kind,
		LongName:        f.longName,
		TimeFrequency:   f.frequency,
		DatasetCategory: f.category,
		Dataset:         f.dataset,
		TimeRange:       tr,
	}, nil
}

func (f *filterFlags) packageFilter() (query.PackageFilter, error) {
	tr, err := f.timeRange()
	if err != nil {
		return query.PackageFilter{}, err
	}
	return query.PackageFilter{
		Category:    f.category,
		PackageName: f.pkgName,
		TimeRange:   tr,
	}, nil
}
