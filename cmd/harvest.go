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
	"github.com/spf13/cobra"
)

// getHarvestCmd returns the harvest command.
func getHarvestCmd() *cobra.Command {
	var (
		ids          []string
		fresh        bool
		packagesOnly bool
		datasetsOnly bool
	)

	harvestCmd := &cobra.Command{
		Use:   "harvest",
		Short: "Harvest dataset metadata into the catalog",
		Long: `Read metadata of datasets described in catalog.yaml and insert
them into the catalog.

This command:
  1. Reads descriptors from ~/.config/dscat/catalog.yaml
  2. Creates missing catalog tables
  3. Opens every dataset, reads its time axis, grid and variable
     attributes, and inserts a container with its fields
  4. Resolves data packages against harvested fields

A failed descriptor does not stop the batch. The command fails only if
nothing could be harvested.

Examples:
  # Harvest everything
  dscat harvest

  # Harvest some descriptors and packages that use them
  dscat harvest -i maurer-tas,maurer-pr

  # Start from an empty catalog
  dscat harvest --fresh

  # Re-resolve packages over already harvested datasets
  dscat harvest --packages-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runHarvest(cmd, ids, fresh, packagesOnly, datasetsOnly)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	harvestCmd.Flags().StringSliceVarP(
		&ids, "ids", "i", []string{},
		"descriptor IDs to harvest (empty = all)",
	)
	harvestCmd.Flags().BoolVar(
		&fresh, "fresh", false,
		"drop all catalog tables before harvesting",
	)
	harvestCmd.Flags().BoolVar(
		&packagesOnly, "packages-only", false,
		"insert data packages only",
	)
	harvestCmd.Flags().BoolVar(
		&datasetsOnly, "datasets-only", false,
		"insert dataset descriptors only",
	)
	harvestCmd.MarkFlagsMutuallyExclusive("packages-only", "datasets-only")

	return harvestCmd
}

func runHarvest(
	cmd *cobra.Command,
	ids []string,
	fresh, packagesOnly, datasetsOnly bool,
) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var harvestOpts []config.Option
	if cmd.Flags().Changed("ids") {
		harvestOpts = append(harvestOpts, config.OptHarvestDescriptorIDs(ids))
	}
	harvestOpts = append(harvestOpts,
		config.OptHarvestFresh(fresh),
		config.OptHarvestSkipDatasets(packagesOnly),
		config.OptHarvestSkipPackages(datasetsOnly),
	)
	cfg.Update(harvestOpts)

	op, err := connectCatalog(ctx, false)
	if err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Harvesting descriptors from <em>%s</em>...", catalogPath())
	h := ioharvest.New(op, iometa.New(), nil)
	res, err := h.Harvest(ctx, cfg)
	if err != nil {
		return err
	}

	for _, f := range res.Failures {
		gn.Warn("<warn>%s</warn>: %s", f.Unit, errorText(f.Err))
	}
	gn.Info(`Next steps:
	 - Run '<em>dscat query variable</em>' to browse the catalog
	 - Run '<em>dscat serve</em>' to start the query API
`)
	return nil
}

// errorText returns the user-facing message of gn errors and the plain
// text of others.
func errorText(err error) string {
	if gnErr, ok := err.(*gn.Error); ok && gnErr.Msg != "" {
		return fmt.Sprintf(gnErr.Msg, gnErr.Vars...)
	}
	return err.Error()
}
