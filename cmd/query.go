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
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/ncpp/dscat/internal/ioquery"
	"github.com/ncpp/dscat/pkg/query"
	"github.com/spf13/cobra"
)

// getQueryCmd returns the query command with variable, index and package
// subcommands.
func getQueryCmd() *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Narrow the catalog to one dataset or package",
		Long: `Query the catalog progressively.

When filters leave one variable, index or package, the output contains
dataset requests ready for the climate operations engine. When several
remain, the output lists values of every filter that are still
possible, so the query can be repeated with more filters.

Examples:
  dscat query variable
  dscat query variable -l "Near-Surface Air Temperature" -d "Maurer 2010"
  dscat query variable -c "Gridded Observational" --start 1980-01-01 --stop 1980-12-31
  dscat query index -t year
  dscat query package -p "Maurer 2010"`,
	}

	queryCmd.AddCommand(
		getFieldQueryCmd(query.KindVariable),
		getFieldQueryCmd(query.KindIndex),
		getPackageQueryCmd(),
	)
	return queryCmd
}

func getFieldQueryCmd(kind string) *cobra.Command {
	var (
		ff      filterFlags
		compact bool
	)

	cmd := &cobra.Command{
		Use:   kind,
		Short: fmt.Sprintf("Resolve a %s field", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.fieldFilter(kind)
			if err == nil {
				err = runQuery(cmd.Context(), compact,
					func(ctx context.Context, e query.Engine) (any, error) {
						return e.ResolveVariableOrIndex(ctx, f)
					})
			}
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	ff.register(cmd, false)
	cmd.Flags().BoolVar(&compact, "compact", false, "print JSON in one line")
	return cmd
}

func getPackageQueryCmd() *cobra.Command {
	var (
		ff      filterFlags
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Resolve a data package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.packageFilter()
			if err == nil {
				err = runQuery(cmd.Context(), compact,
					func(ctx context.Context, e query.Engine) (any, error) {
						return e.ResolvePackage(ctx, f)
					})
			}
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&ff.category, "category", "c", "", "dataset category")
	fs.StringVarP(&ff.pkgName, "package", "p", "", "data package name")
	fs.StringVar(&ff.start, "start", "", "start of time range, YYYY-MM-DD")
	fs.StringVar(&ff.stop, "stop", "", "end of time range, YYYY-MM-DD")
	fs.BoolVar(&compact, "compact", false, "print JSON in one line")
	return cmd
}

func runQuery(
	ctx context.Context,
	compact bool,
	resolve func(context.Context, query.Engine) (any, error),
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	op, err := connectCatalog(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	res, err := resolve(ctx, ioquery.New(op))
	if err != nil {
		return err
	}

	if !compact {
		return printJSON(res)
	}
	var enc gnfmt.GNjson
	out, err := enc.Encode(res)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
