package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

const maxSearchLimit = 20

var MetadataSearchEvents = &mcp.Tool{
	Name: "search_events",
	Description: "Search previously ingested catering events. " +
		"Use document_type event_details for rendered event facts and pricing, event_menu for the full " +
		"source text, or base_pricing for the standard per-person rates. Omit it to search everything.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"query"},
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Natural-language description of the event or menu being looked for",
			},
			"document_type": map[string]interface{}{
				"type": "string",
				"enum": []string{
					string(models.DocumentTypeEventDetails),
					string(models.DocumentTypeEventMenu),
					string(models.DocumentTypeBasePricing),
				},
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of matches, 1 to 20. Defaults to 4.",
			},
		},
	},
	OutputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"matches": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "object"},
			},
		},
	},
}

type InputSearchEvents struct {
	Query        string `json:"query"`
	DocumentType string `json:"document_type"`
	Limit        int    `json:"limit"`
}

type OutputSearchEvents struct {
	Matches []models.SearchMatch `json:"matches"`
}

type SearchTools struct {
	searcher Searcher
}

func (s *SearchTools) SearchEvents(ctx context.Context, _ *mcp.CallToolRequest, input InputSearchEvents) (*mcp.CallToolResult, OutputSearchEvents, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, OutputSearchEvents{}, fmt.Errorf("query is required")
	}

	docType := models.DocumentType(input.DocumentType)
	if docType != "" && !docType.Valid() {
		return nil, OutputSearchEvents{}, fmt.Errorf("unknown document_type %q", input.DocumentType)
	}

	limit := input.Limit
	switch {
	case limit <= 0:
		limit = 4
	case limit > maxSearchLimit:
		limit = maxSearchLimit
	}

	matches, err := s.searcher.Search(ctx, input.Query, docType, limit)
	if err != nil {
		return nil, OutputSearchEvents{}, err
	}
	if matches == nil {
		matches = []models.SearchMatch{}
	}
	return nil, OutputSearchEvents{Matches: matches}, nil
}
