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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/internal/ioschema"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create catalog schema",
		Long: `Create the dscat catalog schema from scratch.

This command:
  1. Opens the catalog (sqlite file or PostgreSQL database)
  2. Checks for existing tables and prompts for confirmation
  3. Creates all tables using GORM AutoMigrate

Use --force to skip confirmation and drop existing tables.

Examples:
  dscat create
  dscat create --force
  dscat create -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCreate(cmd.Context(), os.Stdin, forceCreate)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")

	return createCmd
}

func runCreate(ctx context.Context, in io.Reader, force bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	op, err := connectCatalog(ctx, false)
	if err != nil {
		return err
	}
	defer op.Close()

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}

	if hasTables {
		if force {
			gn.Info("Dropping all existing tables (--force enabled)...")
		} else {
			gn.Warn("\nWarning: Catalog contains existing tables.")
			gn.Warn("Creating schema will drop ALL existing tables and data.")
			fmt.Print("\nDo you want to continue? (yes/no): ")

			reader := bufio.NewReader(in)
			response, err := reader.ReadString('\n')
			if err != nil && response == "" {
				gn.Warn("Failed to read user input")
				return err
			}

			response = strings.TrimSpace(strings.ToLower(response))
			if response != "yes" && response != "y" {
				gn.Info("Aborted. No changes made.")
				return nil
			}
			gn.Info("Dropping all existing tables...")
		}
		if err := op.DropAllTables(ctx); err != nil {
			return err
		}
		gn.Info("All tables dropped")
	}

	sm := ioschema.NewManager(op)
	gn.Info("Creating schema using GORM AutoMigrate...")
	if err := sm.Create(ctx, cfg); err != nil {
		return err
	}

	gn.Info(`Catalog schema creation complete!

Next steps:
  - Edit <em>%s</em> to describe your datasets
  - Run '<em>dscat check</em>' to test metadata of the descriptors
  - Run '<em>dscat harvest</em>' to fill the catalog`,
		catalogPath())

	return nil
}
