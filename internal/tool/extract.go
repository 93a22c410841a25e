package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NEMYSESx/menu-ingest/internal/extract"
	"github.com/NEMYSESx/menu-ingest/internal/models"
	"github.com/NEMYSESx/menu-ingest/internal/record"
)

var MetadataExtractEventRecord = &mcp.Tool{
	Name: "extract_event_record",
	Description: "Extract a structured catering event record from the plain text of an event document. " +
		"Returns the event name, date, time, guest count, location, contact details, menu sections, " +
		"raw price strings and an itemized pricing breakdown, plus a human-readable details rendering. " +
		"Fields that cannot be found are omitted.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"text"},
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Plain text of the event document",
			},
			"filename": map[string]interface{}{
				"type":        "string",
				"description": "Original filename, used to derive the event name when the text has none",
			},
		},
	},
	OutputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"record":  map[string]interface{}{"type": "object"},
			"summary": map[string]interface{}{"type": "object"},
			"details": map[string]interface{}{"type": "string"},
		},
	},
}

type InputExtractEventRecord struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

type OutputExtractEventRecord struct {
	Record  models.EventRecord  `json:"record"`
	Summary models.EventSummary `json:"summary"`
	Details string              `json:"details"`
}

func ExtractEventRecord(ctx context.Context, _ *mcp.CallToolRequest, input InputExtractEventRecord) (*mcp.CallToolResult, OutputExtractEventRecord, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, OutputExtractEventRecord{}, fmt.Errorf("text is required")
	}

	filename := input.Filename
	if filename == "" {
		filename = "untitled.txt"
	}

	rec := extract.NewExtractor().Extract(input.Text, filename)
	return nil, OutputExtractEventRecord{
		Record:  rec,
		Summary: rec.Summary(),
		Details: record.RenderDetails(rec),
	}, nil
}
