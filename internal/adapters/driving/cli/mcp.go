package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/warroom/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools: search, summary, ingest_file, and generate_questions when an API key
is configured. Resources: warroom://documents and
warroom://documents/{filename}.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  warroom mcp serve --dir ~/earnings/q3

  # HTTP mode (for MCP Inspector, remote access)
  warroom mcp serve --port 8080

  # Ingest files dropped into a folder while serving
  warroom mcp serve --watch ~/earnings/inbox

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "warroom": {
        "command": "/path/to/warroom",
        "args": ["mcp", "serve", "--dir", "/path/to/documents"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("watch", "", "directory to watch for new documents")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watchDir, err := cmd.Flags().GetString("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}
	if watchDir != "" && ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ports := &mcp.Ports{
		Search: searchService,
		Report: reportService,
		Ingest: ingestService,
	}
	if aiResult != nil && aiResult.Enabled() {
		ports.Prep = prepService
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	return runWithWatch(cmd.Context(), watchDir, func(ctx context.Context) error {
		if port > 0 {
			addr := fmt.Sprintf(":%d", port)
			fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
			return server.RunHTTP(ctx, addr)
		}
		return server.Run(ctx)
	})
}
