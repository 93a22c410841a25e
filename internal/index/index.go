package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

// Indexer accepts the documents produced by one batch run.
type Indexer interface {
	Index(ctx context.Context, docs []models.IndexDocument) error
}

// pointNamespace seeds the deterministic point ids, so re-ingesting a file
// replaces its previous points instead of duplicating them.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("menu-ingest/catering-events"))

// DocumentID returns the stable id of a document, derived from its source id
// (or filename when no id is known) and the document type.
func DocumentID(doc models.IndexDocument) string {
	key := string(doc.DocumentType)
	switch {
	case doc.SourceID != "":
		key = doc.SourceID + "#" + key
	case doc.SourceFilename != "":
		key = doc.SourceFilename + "#" + key
	}
	return uuid.NewSHA1(pointNamespace, []byte(key)).String()
}

// Payload flattens a document into plain JSON values: strings, float64,
// bool, []interface{} and map[string]interface{}.
func Payload(doc models.IndexDocument) (map[string]interface{}, error) {
	payload, err := normalize(doc.Metadata)
	if err != nil {
		return nil, err
	}

	payload["content"] = doc.Content
	payload["document_type"] = string(doc.DocumentType)
	if doc.SourceFilename != "" {
		payload["source_filename"] = doc.SourceFilename
	}
	if doc.SourceID != "" {
		payload["source_id"] = doc.SourceID
	}
	return payload, nil
}

func normalize(metadata map[string]interface{}) (map[string]interface{}, error) {
	if metadata == nil {
		return map[string]interface{}{}, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to normalize metadata: %w", err)
	}
	return out, nil
}

// Multi hands the documents to each indexer in order and stops at the first
// failure.
type Multi []Indexer

func (m Multi) Index(ctx context.Context, docs []models.IndexDocument) error {
	for _, indexer := range m {
		if err := indexer.Index(ctx, docs); err != nil {
			return err
		}
	}
	return nil
}
