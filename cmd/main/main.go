package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/NEMYSESx/menu-ingest/internal/config"
	"github.com/NEMYSESx/menu-ingest/internal/logger"
)

var version = "dev"

var configPath string

func main() {
	_ = godotenv.Load()

	logger.InitLogger()
	defer logger.Close()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Close()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "menu-ingest",
		Short:         "Extract catering event records from documents and index them for retrieval",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.json", "Path to configuration file")

	root.AddCommand(
		newIngestCmd(),
		newExtractCmd(),
		newSearchCmd(),
		newMCPCmd(),
	)
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
