package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/elo"
	"github.com/aretw0/elo/pkg/adapters/console"
	"github.com/aretw0/elo/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the workflows as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdin carries the protocol; template choices come from tool arguments.
		noPrompt := console.NewSelector(strings.NewReader(""), io.Discard)
		app, err := openApp(cmd, elo.WithSelector(noPrompt))
		if err != nil {
			return err
		}
		server := mcp.New(app.Service, mcp.Config{
			Version: elo.Version,
			Logger:  slog.Default(),
		})
		return server.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
