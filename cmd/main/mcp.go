package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/NEMYSESx/menu-ingest/internal/logger"
	"github.com/NEMYSESx/menu-ingest/internal/tool"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the extraction and search tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var searcher tool.Searcher
			if cfg.Qdrant.Enabled && cfg.Gemini.APIKey != "" {
				qdrant, err := newQdrant(cfg)
				if err != nil {
					return err
				}
				defer qdrant.Close()
				searcher = qdrant
			} else {
				logger.GetLogger().Infow("Search tool disabled", "qdrant_enabled", cfg.Qdrant.Enabled)
			}

			server := tool.NewServer(version, searcher)
			return server.Run(ctx, &mcp.StdioTransport{})
		},
	}
}
