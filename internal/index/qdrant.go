package index

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/NEMYSESx/menu-ingest/internal/config"
	"github.com/NEMYSESx/menu-ingest/internal/embedders"
	"github.com/NEMYSESx/menu-ingest/internal/logger"
	"github.com/NEMYSESx/menu-ingest/internal/models"
)

var keywordFields = []string{"document_type", "event_name", "source_filename", "source_id"}

type pointsClient interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	CreateFieldIndex(ctx context.Context, request *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error)
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

type Qdrant struct {
	client     pointsClient
	embedder   embedders.Embedder
	collection string
	vectorSize uint64
}

func NewQdrant(cfg config.QdrantConfig, embedder embedders.Embedder) (*Qdrant, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return newQdrant(client, embedder, cfg.Collection, cfg.VectorSize), nil
}

func newQdrant(client pointsClient, embedder embedders.Embedder, collection string, vectorSize int) *Qdrant {
	return &Qdrant{
		client:     client,
		embedder:   embedder,
		collection: collection,
		vectorSize: uint64(vectorSize),
	}
}

// EnsureCollection creates the collection and its keyword payload indexes
// when the collection does not exist yet.
func (q *Qdrant) EnsureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", q.collection, err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", q.collection, err)
	}

	for _, field := range keywordFields {
		_, err := q.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: q.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("failed to index payload field %s: %w", field, err)
		}
	}

	logger.GetLogger().Infow("Created qdrant collection", "collection", q.collection, "vector_size", q.vectorSize)
	return nil
}

func (q *Qdrant) Index(ctx context.Context, docs []models.IndexDocument) error {
	if len(docs) == 0 {
		return nil
	}
	if err := q.EnsureCollection(ctx); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, doc := range docs {
		point, err := q.point(ctx, doc)
		if err != nil {
			return err
		}
		points = append(points, point)
	}

	wait := true
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points: %w", len(points), err)
	}

	logger.GetLogger().Infow("Indexed documents", "collection", q.collection, "points", len(points))
	return nil
}

func (q *Qdrant) point(ctx context.Context, doc models.IndexDocument) (*qdrant.PointStruct, error) {
	vector, err := q.embedder.Embed(ctx, doc.Content, embedders.TaskRetrievalDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %s document for %q: %w", doc.DocumentType, doc.SourceFilename, err)
	}

	payload, err := Payload(doc)
	if err != nil {
		return nil, err
	}
	values, err := qdrant.TryValueMap(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to convert payload: %w", err)
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewID(DocumentID(doc)),
		Vectors: qdrant.NewVectors(vector...),
		Payload: values,
	}, nil
}

// Search embeds the query and returns the closest documents, optionally
// restricted to one document type.
func (q *Qdrant) Search(ctx context.Context, query string, docType models.DocumentType, limit int) ([]models.SearchMatch, error) {
	if limit <= 0 {
		limit = 5
	}

	vector, err := q.embedder.Embed(ctx, query, embedders.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	request := &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(vector...),
		WithPayload:    qdrant.NewWithPayload(true),
		Limit:          qdrant.PtrOf(uint64(limit)),
	}
	if docType != "" {
		request.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("document_type", string(docType))},
		}
	}

	points, err := q.client.Query(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", q.collection, err)
	}

	matches := make([]models.SearchMatch, 0, len(points))
	for _, point := range points {
		metadata := make(map[string]interface{}, len(point.GetPayload()))
		for key, value := range point.GetPayload() {
			metadata[key] = fromValue(value)
		}

		content, _ := metadata["content"].(string)
		kind, _ := metadata["document_type"].(string)
		delete(metadata, "content")

		matches = append(matches, models.SearchMatch{
			Score:        point.GetScore(),
			DocumentType: models.DocumentType(kind),
			Content:      content,
			Metadata:     metadata,
		})
	}
	return matches, nil
}

func (q *Qdrant) Close() error {
	return q.client.Close()
}

func fromValue(value *qdrant.Value) interface{} {
	switch kind := value.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		items := make([]interface{}, 0, len(kind.ListValue.GetValues()))
		for _, item := range kind.ListValue.GetValues() {
			items = append(items, fromValue(item))
		}
		return items
	case *qdrant.Value_StructValue:
		fields := make(map[string]interface{}, len(kind.StructValue.GetFields()))
		for key, item := range kind.StructValue.GetFields() {
			fields[key] = fromValue(item)
		}
		return fields
	default:
		return nil
	}
}
