package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NEMYSESx/menu-ingest/internal/models"
	"github.com/NEMYSESx/menu-ingest/internal/storage"
)

func newSearchCmd() *cobra.Command {
	var (
		docType   string
		limit     int
		summaries bool
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find indexed event documents nearest to a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := models.DocumentType(docType)
			if kind != "" && !kind.Valid() {
				return fmt.Errorf("unknown document type %q", docType)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			if summaries {
				env, err := storage.NewLocalFile(cfg.Storage.SummariesPath).Load()
				if err != nil {
					return err
				}
				return printJSON(cmd, matchSummaries(env.Summaries, query, limit))
			}

			qdrant, err := newQdrant(cfg)
			if err != nil {
				return err
			}
			defer qdrant.Close()

			matches, err := qdrant.Search(cmd.Context(), query, kind, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, matches)
		},
	}
	cmd.Flags().StringVar(&docType, "type", string(models.DocumentTypeEventDetails), "Document type filter (event_details, event_menu, base_pricing, or empty for all)")
	cmd.Flags().IntVar(&limit, "limit", 4, "Maximum number of matches")
	cmd.Flags().BoolVar(&summaries, "summaries", false, "Search the saved event summaries by name instead of the vector index")
	return cmd
}

// matchSummaries keeps summaries whose event name contains every query word.
func matchSummaries(all []models.EventSummary, query string, limit int) []models.EventSummary {
	words := strings.Fields(strings.ToLower(query))
	matches := []models.EventSummary{}
	for _, s := range all {
		name := strings.ToLower(s.EventName)
		hit := true
		for _, w := range words {
			if !strings.Contains(name, w) {
				hit = false
				break
			}
		}
		if hit {
			matches = append(matches, s)
		}
		if limit > 0 && len(matches) == limit {
			break
		}
	}
	return matches
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
