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

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/internal/ioquery"
	"github.com/ncpp/dscat/internal/ioserver"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	var port int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON query API",
		Long: `Serve catalog queries over HTTP.

Endpoints:
  GET /health          status and version
  GET /metrics         Prometheus metrics
  GET /api/variables   same filters as 'dscat query variable',
                       plus kind=variable|index
  GET /api/packages    same filters as 'dscat query package'

Variable filters are query parameters long_name, time_frequency,
dataset_category and dataset. Package filters are category and name.
Both take a time range as start and stop.

Examples:
  dscat serve
  dscat serve -p 8888`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runServe(cmd, port)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 0,
		"port to listen on (default from config)")

	return serveCmd
}

func runServe(cmd *cobra.Command, port int) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cmd.Flags().Changed("port") {
		cfg.Update([]config.Option{config.OptServerPort(port)})
	}

	op, err := connectCatalog(ctx, true)
	if err != nil {
		return err
	}
	defer op.Close()

	srv, err := ioserver.New(ioquery.New(op), cfg.Server)
	if err != nil {
		return err
	}

	gn.Info("Serving catalog queries on port <em>%d</em>", cfg.Server.Port)
	return srv.Run(ctx)
}
