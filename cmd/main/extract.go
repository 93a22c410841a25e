package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NEMYSESx/menu-ingest/internal/extract"
	"github.com/NEMYSESx/menu-ingest/internal/record"
	"github.com/NEMYSESx/menu-ingest/internal/validator"
)

func newExtractCmd() *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract the event record from one local document and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := args[0]
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			filename := filepath.Base(path)

			if err := validator.NewFileValidator(&cfg.Processing).Validate(filename, content); err != nil {
				return err
			}

			extraction, err := textExtractor(cfg).Extract(cmd.Context(), filename, content)
			if err != nil {
				return err
			}
			if extraction.Text == "" {
				return fmt.Errorf("no text extracted from %s", filename)
			}

			rec := extract.NewExtractor().Extract(extraction.Text, filename)
			if details {
				fmt.Fprint(cmd.OutOrStdout(), record.RenderDetails(rec))
				return nil
			}

			return printJSON(cmd, rec)
		},
	}
	cmd.Flags().BoolVar(&details, "details", false, "Print the rendered details document instead of JSON")
	return cmd
}
