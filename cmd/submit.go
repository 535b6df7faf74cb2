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
	"context"
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/ncpp/dscat/internal/iojobs"
	"github.com/ncpp/dscat/internal/ioquery"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/ncpp/dscat/pkg/jobs"
	"github.com/ncpp/dscat/pkg/query"
	"github.com/spf13/cobra"
)

type submitFlags struct {
	filterFlags
	kind      string
	calc      []string
	grouping  []string
	geom      string
	aggregate bool
	format    string
	prefix    string
	url       string
	wait      bool
	status    string
}

// getSubmitCmd returns the submit command.
func getSubmitCmd() *cobra.Command {
	var sf submitFlags

	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a climate operation over resolved datasets",
		Long: `Resolve a variable, an index or a data package, and submit an
operation over it to the climate operations service.

The filters must leave exactly one field or package, otherwise the
remaining options are printed and nothing is submitted.

Examples:
  # Monthly means of Maurer daily temperature over a polygon
  dscat submit -d "Maurer 2010" -l "Near-Surface Air Temperature" \
    --calc mean --grouping month \
    --geom "POLYGON ((-105 39, -104 39, -104 40, -105 40, -105 39))"

  # All datasets of a package as NetCDF, wait for the result
  dscat submit -p "Maurer 2010" --wait

  # Status of a submitted job
  dscat submit --status 6f1c1f8e`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSubmit(cmd, &sf)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	sf.register(submitCmd, true)
	fs := submitCmd.Flags()
	fs.StringVarP(&sf.kind, "kind", "k", query.KindVariable,
		"field kind: variable or index")
	fs.StringSliceVar(&sf.calc, "calc", nil,
		"calculations, e.g. mean,max")
	fs.StringSliceVar(&sf.grouping, "grouping", nil,
		"temporal grouping of calculations, e.g. month,year")
	fs.StringVarP(&sf.geom, "geom", "g", "",
		"WKT polygon or name of a predefined geometry")
	fs.BoolVarP(&sf.aggregate, "aggregate", "a", false,
		"spatially average the geometry")
	fs.StringVarP(&sf.format, "output-format", "o", "nc",
		"output format: numpy, nc, csv, csv+, shp")
	fs.StringVar(&sf.prefix, "prefix", "",
		"name of the produced artifact")
	fs.StringVar(&sf.url, "url", "",
		"execution service URL (default from config)")
	fs.BoolVarP(&sf.wait, "wait", "w", false,
		"wait until the job succeeds or fails")
	fs.StringVar(&sf.status, "status", "",
		"print status of a submitted job and exit")

	return submitCmd
}

func runSubmit(cmd *cobra.Command, sf *submitFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cmd.Flags().Changed("url") {
		cfg.Update([]config.Option{config.OptExecutorURL(sf.url)})
	}
	ex := iojobs.New(cfg.Executor)

	if sf.status != "" {
		st, err := ex.Status(ctx, sf.status)
		if err != nil {
			return err
		}
		return printJSON(st)
	}

	datasets, err := resolveDatasets(ctx, sf)
	if err != nil {
		return err
	}

	tr, err := sf.timeRange()
	if err != nil {
		return err
	}
	req := jobs.Request{
		Datasets:     datasets,
		Geometry:     sf.geom,
		TimeRange:    tr,
		Calculation:  sf.calc,
		CalcGrouping: sf.grouping,
		Aggregate:    sf.aggregate,
		OutputFormat: sf.format,
		Prefix:       sf.prefix,
	}

	st, err := ex.Submit(ctx, req)
	if err != nil {
		return err
	}
	gn.Info("Submitted job <em>%s</em> to %s", st.ID, cfg.Executor.URL)

	if sf.wait {
		if st, err = ex.Wait(ctx, st.ID); err != nil {
			return err
		}
	}
	return printJSON(st)
}

// resolveDatasets runs the query given by filters. An ambiguous result
// prints remaining options and returns an error.
func resolveDatasets(
	ctx context.Context,
	sf *submitFlags,
) ([]query.RequestDataset, error) {
	op, err := connectCatalog(ctx, true)
	if err != nil {
		return nil, err
	}
	defer op.Close()
	e := ioquery.New(op)

	if sf.pkgName != "" {
		f, err := sf.packageFilter()
		if err != nil {
			return nil, err
		}
		res, err := e.ResolvePackage(ctx, f)
		if err != nil {
			return nil, err
		}
		if res.Status != query.Resolved {
			return nil, ambiguousError(res.Options)
		}
		return res.Datasets, nil
	}

	f, err := sf.fieldFilter(sf.kind)
	if err != nil {
		return nil, err
	}
	res, err := e.ResolveVariableOrIndex(ctx, f)
	if err != nil {
		return nil, err
	}
	if res.Status != query.Resolved {
		return nil, ambiguousError(res.Options)
	}
	return []query.RequestDataset{*res.Dataset}, nil
}

func ambiguousError(options any) error {
	_ = printJSON(options)
	return &gn.Error{
		Code: errcode.QueryArgumentError,
		Msg: `<warn>Several catalog entries match the filters.</warn>
   Add filters from the options above.`,
		Err: errors.New("query is ambiguous"),
	}
}

func printJSON(v any) error {
	enc := gnfmt.GNjson{Pretty: true}
	out, err := enc.Encode(v)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
