package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgen-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can preview,
generate and check the API documentation of this project.

By default the server speaks JSON-RPC over stdio. Use --port to serve the
streamable HTTP transport instead, e.g. for the MCP Inspector.

Examples:
  # Stdio mode
  docgen mcp serve --source lib

  # HTTP mode
  docgen mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "docgen": {
        "command": "/path/to/docgen",
        "args": ["mcp", "serve", "--config", "/path/to/project/docgen.toml"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	rt, err := prepare(cmd, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	server, err := mcp.NewServer(&mcp.Ports{
		Generator: rt.generator,
		Checker:   rt.checker,
		Secrets:   rt.scanner,
	}, version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		// Stdout is free in HTTP mode; in stdio mode it carries the protocol.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
