package main

import (
	"context"
	"fmt"

	"github.com/aretw0/femtree/internal/cli"
	"github.com/aretw0/femtree/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server",
	Long:  `Exposes project editing as MCP tools over stdio (default) or SSE.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			srv := mcp.NewServer(app.Engine, mcp.WithLogger(app.Logger))
			switch transport {
			case "stdio":
				return srv.ServeStdio()
			case "sse":
				return srv.ServeSSE(ctx, port)
			default:
				return fmt.Errorf("unknown transport %q (use stdio or sse)", transport)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().IntP("port", "p", 8081, "Port for the sse transport")
}
