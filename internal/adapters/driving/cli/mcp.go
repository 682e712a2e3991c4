package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studydeck/studydeck-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search the
article index.

Tools: search, related, suggest, popular.
Resources: studydeck://index, studydeck://documents/{documentId}.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead, or --http to pick the first free port
from 8765.

Examples:
  # Stdio mode (default)
  studydeck mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  studydeck mcp serve --port 8080

  # HTTP mode on any free port
  studydeck mcp serve --http

Client configuration:
  {
    "mcpServers": {
      "studydeck": {
        "command": "/path/to/studydeck",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

// HTTP ports tried by --http.
const (
	mcpPortRangeStart = 8765
	mcpPortRangeEnd   = 8799
)

var (
	mcpPort int
	mcpHTTP bool
)

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().BoolVar(&mcpHTTP, "http", false, "serve HTTP on the first free port from 8765")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{Search: searchService})
	if err != nil {
		return err
	}

	port := mcpPort
	if port == 0 && mcpHTTP {
		port, err = mcp.FindAvailablePort(mcpPortRangeStart, mcpPortRangeEnd)
		if err != nil {
			return err
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
