package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/adapters/driving/mcp"
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

The documents given with -d or --dir are loaded first. The server offers
the tools "ask" and "search" and the resources studymate://documents and
studymate://history.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  studymate mcp serve --dir ~/notes

  # HTTP mode (for MCP Inspector, remote access)
  studymate mcp serve --dir ~/notes --port 8080 --watch

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "studymate": {
        "command": "/path/to/studymate",
        "args": ["mcp", "serve", "--dir", "/path/to/notes"]
      }
    }
  }`,
	RunE: runMCPServe,
}

var mcpWatch bool

func init() {
	addDocumentFlags(mcpServeCmd)
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().BoolVar(&mcpWatch, "watch", false, "rebuild when files in --dir change")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if err := validateWatch(mcpWatch); err != nil {
		return err
	}
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// stdout carries JSON-RPC in stdio mode, so progress goes to stderr.
	if _, err := loadDocuments(ctx, cmd); err != nil {
		return err
	}
	if mcpWatch {
		go watchAndPrint(ctx, cmd)
	}

	server, err := mcp.NewServer(mcp.PortsFromSession(sessionService), mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
