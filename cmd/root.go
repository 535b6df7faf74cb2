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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/internal/iodb"
	"github.com/ncpp/dscat/internal/ioconfig"
	"github.com/ncpp/dscat/internal/iofs"
	"github.com/ncpp/dscat/internal/iologger"
	app "github.com/ncpp/dscat/pkg"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/db"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/spf13/cobra"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "dscat",
		Short:   "dscat catalogs NCPP climate datasets",
		Long: `dscat builds and queries a catalog of gridded climate datasets.

The catalog records where NetCDF files live, which variables and indices
they hold, their time span, frequency, calendar and spatial envelope.
Datasets are described in ~/.config/dscat/catalog.yaml and harvested
into a sqlite file or a PostgreSQL database.

Commands:
  - create:  create the catalog schema
  - harvest: read metadata of described datasets into the catalog
  - check:   read metadata without writing anything
  - query:   narrow the catalog down to one dataset or package
  - serve:   JSON API over queries
  - submit:  send a resolved dataset to the climate operations service

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (DSCAT_*, e.g. DSCAT_CATALOG_BACKEND)
  3. Config file (~/.config/dscat/config.yaml)
  4. Built-in defaults`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "dscat version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for dscat")

	rootCmd.AddCommand(
		getCreateCmd(),
		getHarvestCmd(),
		getCheckCmd(),
		getQueryCmd(),
		getServeCmd(),
		getSubmitCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Logging starts with defaults, it is reconfigured after the config
	// file is read.
	defaultLog := config.New().Log
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureCatalogFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if opts, err = ioconfig.Options(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = iologger.Init(config.LogDir(homeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"catalog_backend", cfg.Catalog.Backend,
	)

	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	versionFlag(cmd)
	gn.Info("Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir))
	return cmd.Help()
}

// connectCatalog opens the configured catalog. With needTables an empty
// catalog is an error.
func connectCatalog(ctx context.Context, needTables bool) (db.Operator, error) {
	op := iodb.New()
	if err := op.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	slog.Info("Connected to catalog", "backend", cfg.Catalog.Backend)

	if !needTables {
		return op, nil
	}

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		op.Close()
		return nil, err
	}
	if !hasTables {
		op.Close()
		return nil, &gn.Error{
			Code: errcode.DBEmptyDatabaseError,
			Msg: `<err>Catalog appears to be empty.</err>
   Run <em>'dscat harvest'</em> first.`,
			Err: errors.New("catalog has no tables"),
		}
	}
	return op, nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	err := getRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func catalogPath() string {
	return config.CatalogFilePath(cfg.HomeDir)
}
