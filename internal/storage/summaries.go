package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

// SchemaVersion is written with every summary file. Files without a version
// (a bare JSON list) are read as version 0.
const SchemaVersion = 1

type SummaryEnvelope struct {
	SchemaVersion int                   `json:"schema_version"`
	GeneratedAt   time.Time             `json:"generated_at"`
	Summaries     []models.EventSummary `json:"summaries"`
}

// SummarySink stores the catalog of a batch run, replacing any previous one.
type SummarySink interface {
	Save(ctx context.Context, summaries []models.EventSummary) error
}

func newEnvelope(summaries []models.EventSummary, now time.Time) SummaryEnvelope {
	if summaries == nil {
		summaries = []models.EventSummary{}
	}
	return SummaryEnvelope{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   now.UTC().Truncate(time.Second),
		Summaries:     summaries,
	}
}

func encodeEnvelope(w io.Writer, env SummaryEnvelope) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(env); err != nil {
		return fmt.Errorf("failed to encode summaries to JSON: %w", err)
	}
	return nil
}

func DecodeEnvelope(r io.Reader) (*SummaryEnvelope, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read summaries: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var legacy []models.EventSummary
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
		return &SummaryEnvelope{SchemaVersion: 0, Summaries: legacy}, nil
	}

	var env SummaryEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if env.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("unsupported summaries schema version %d", env.SchemaVersion)
	}
	return &env, nil
}

// MultiSink saves to each sink in order and stops at the first failure.
type MultiSink []SummarySink

func (m MultiSink) Save(ctx context.Context, summaries []models.EventSummary) error {
	for _, sink := range m {
		if err := sink.Save(ctx, summaries); err != nil {
			return err
		}
	}
	return nil
}
