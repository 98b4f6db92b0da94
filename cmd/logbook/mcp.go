package main

import (
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/claude/logbook/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long:  `Runs the MCP server over stdio against the local database, or against a running logbook server with --remote.`,
	RunE:  runMCP,
}

var mcpRemote string

func init() {
	mcpCmd.Flags().StringVar(&mcpRemote, "remote", "", "base URL of a running logbook server (e.g. http://logbook.tailnet:80)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if mcpRemote != "" {
		log.Info("mcp serving remote data", "url", mcpRemote)
		return mcpserver.ServeStdio(mcp.New(mcp.NewHTTPClient(mcpRemote), Version, log))
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	return mcpserver.ServeStdio(mcp.New(mcp.Local{Service: a.svc}, Version, log))
}
