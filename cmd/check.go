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
	"github.com/ncpp/dscat/internal/ioharvest"
	"github.com/ncpp/dscat/internal/iometa"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/lifecycle"
	"github.com/spf13/cobra"
)

// getCheckCmd returns the check command.
func getCheckCmd() *cobra.Command {
	var (
		ids  []string
		jobs int
	)

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check metadata of described datasets",
		Long: `Read metadata of every descriptor in catalog.yaml without
writing to the catalog, and report what would be harvested.

Descriptors are read concurrently. Each line of the report shows the
time span, frequency and field shape of a dataset, or why it cannot be
read.

Examples:
  dscat check
  dscat check -j 4
  dscat check -i hayhoe-gfdl-pr`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCheck(cmd, ids, jobs)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	checkCmd.Flags().StringSliceVarP(
		&ids, "ids", "i", []string{},
		"descriptor IDs to check (empty = all)",
	)
	checkCmd.Flags().IntVarP(
		&jobs, "jobs", "j", 0,
		"number of concurrent readers (default from config)",
	)

	return checkCmd
}

func runCheck(cmd *cobra.Command, ids []string, jobs int) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var checkOpts []config.Option
	if cmd.Flags().Changed("ids") {
		checkOpts = append(checkOpts, config.OptHarvestDescriptorIDs(ids))
	}
	if cmd.Flags().Changed("jobs") {
		checkOpts = append(checkOpts, config.OptJobsNumber(jobs))
	}
	cfg.Update(checkOpts)

	c := ioharvest.NewChecker(iometa.New(), nil)
	report, err := c.Check(ctx, cfg)
	if err != nil {
		return err
	}

	for _, e := range report.Entries {
		fmt.Println(checkLine(e))
	}

	failed := report.Failed()
	if len(failed) > 0 {
		gn.Warn("<warn>%d of %d descriptors cannot be harvested</warn>",
			len(failed), len(report.Entries))
		return nil
	}
	gn.Info("All <em>%d</em> descriptors are readable", len(report.Entries))
	return nil
}

func checkLine(e lifecycle.CheckEntry) string {
	if e.Err != nil {
		return fmt.Sprintf("FAIL %s: %s", e.ID, errorText(e.Err))
	}
	return fmt.Sprintf("OK   %s: %s..%s %s %s",
		e.ID,
		e.TimeStart.Format("2006-01-02"),
		e.TimeStop.Format("2006-01-02"),
		e.TimeFrequency,
		e.FieldShape,
	)
}
