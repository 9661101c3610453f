package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/warroom/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/warroom/internal/adapters/driving/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session over HTTP",
	Long: `Starts an HTTP API over a long-lived session.

Endpoints:
  POST /documents           upload files (multipart field "file", repeatable)
  GET  /documents           list documents with statistics and a preview
  GET  /documents/{name}    extracted document as JSON
  GET  /search?q=&limit=    ranked search results
  GET  /summary             corpus statistics
  GET  /healthz             liveness

Use --watch to also ingest files as they appear in a directory.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	serveCmd.Flags().String("watch", "", "directory to watch for new documents")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}
	watchDir, err := cmd.Flags().GetString("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	if ingestService == nil || searchService == nil || reportService == nil {
		return errors.New("services not configured")
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Ingest: ingestService,
		Search: searchService,
		Report: reportService,
	}, httpapi.Options{AccessLog: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "HTTP API listening on http://%s\n", addr)
	return runWithWatch(cmd.Context(), watchDir, func(ctx context.Context) error {
		return server.Run(ctx, addr)
	})
}

// runWithWatch runs serve alongside a directory watcher when dir is set.
// Either stopping stops both.
func runWithWatch(ctx context.Context, dir string, serve func(context.Context) error) error {
	if dir == "" {
		return serve(ctx)
	}

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return watch.New(dir, ingestService).Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return serve(ctx)
	})
	return g.Wait()
}
