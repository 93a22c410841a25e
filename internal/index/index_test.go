package index

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NEMYSESx/menu-ingest/internal/embedders"
	"github.com/NEMYSESx/menu-ingest/internal/models"
)

func menuDoc() models.IndexDocument {
	return models.IndexDocument{
		Content:      "Event: Smith Reunion\n\nDinner Menu:\n- Salmon",
		DocumentType: models.DocumentTypeEventMenu,
		Metadata: map[string]interface{}{
			"event_name":    "Smith Reunion",
			"document_type": "event_menu",
			"menu_items": models.MenuSections{
				{Header: "Dinner Menu", Items: []string{"Salmon"}},
			},
			"guest_count": "120",
		},
		SourceFilename: "smith_reunion.pdf",
	}
}

func TestDocumentIDStable(t *testing.T) {
	doc := menuDoc()
	details := doc
	details.DocumentType = models.DocumentTypeEventDetails
	other := doc
	other.SourceFilename = "jones_wedding.pdf"

	assert.Equal(t, DocumentID(doc), DocumentID(menuDoc()))
	assert.NotEqual(t, DocumentID(doc), DocumentID(details))
	assert.NotEqual(t, DocumentID(doc), DocumentID(other))
	assert.Len(t, DocumentID(doc), 36)
}

func TestDocumentIDUsesSourceID(t *testing.T) {
	older := menuDoc()
	older.SourceFilename = "gala.pdf"
	older.SourceID = "2023/gala.pdf"
	newer := older
	newer.SourceID = "2024/gala.pdf"
	again := older

	assert.NotEqual(t, DocumentID(older), DocumentID(newer))
	assert.Equal(t, DocumentID(older), DocumentID(again))

	payload, err := Payload(newer)
	require.NoError(t, err)
	assert.Equal(t, "2024/gala.pdf", payload["source_id"])
	assert.Equal(t, "gala.pdf", payload["source_filename"])
}

func TestPayloadNormalizesMetadata(t *testing.T) {
	payload, err := Payload(menuDoc())
	require.NoError(t, err)

	assert.Equal(t, "event_menu", payload["document_type"])
	assert.Equal(t, "smith_reunion.pdf", payload["source_filename"])
	assert.Equal(t, menuDoc().Content, payload["content"])
	assert.Equal(t, map[string]interface{}{"Dinner Menu": []interface{}{"Salmon"}}, payload["menu_items"])

	bare, err := Payload(models.IndexDocument{Content: "Base Menu Pricing:", DocumentType: models.DocumentTypeBasePricing})
	require.NoError(t, err)
	assert.NotContains(t, bare, "source_filename")
}

type fakeEmbedder struct {
	calls []embedders.TaskType
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, task embedders.TaskType) ([]float32, error) {
	f.calls = append(f.calls, task)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.5, 0.25}, nil
}

type fakePoints struct {
	exists      bool
	created     *qdrant.CreateCollection
	fieldIndex  []string
	upserts     []*qdrant.UpsertPoints
	queries     []*qdrant.QueryPoints
	queryResult []*qdrant.ScoredPoint
}

func (f *fakePoints) CollectionExists(ctx context.Context, name string) (bool, error) {
	return f.exists, nil
}

func (f *fakePoints) CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error {
	f.created = request
	f.exists = true
	return nil
}

func (f *fakePoints) CreateFieldIndex(ctx context.Context, request *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error) {
	f.fieldIndex = append(f.fieldIndex, request.GetFieldName())
	return &qdrant.UpdateResult{}, nil
}

func (f *fakePoints) Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	f.upserts = append(f.upserts, request)
	return &qdrant.UpdateResult{}, nil
}

func (f *fakePoints) Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	f.queries = append(f.queries, request)
	return f.queryResult, nil
}

func (f *fakePoints) Close() error { return nil }

func TestQdrantIndexCreatesCollectionOnce(t *testing.T) {
	points := &fakePoints{}
	embedder := &fakeEmbedder{}
	q := newQdrant(points, embedder, "catering_events", 768)

	require.NoError(t, q.Index(context.Background(), []models.IndexDocument{menuDoc()}))
	require.NoError(t, q.Index(context.Background(), []models.IndexDocument{menuDoc()}))

	require.NotNil(t, points.created)
	assert.Equal(t, "catering_events", points.created.GetCollectionName())
	assert.Equal(t, keywordFields, points.fieldIndex)

	require.Len(t, points.upserts, 2)
	upserted := points.upserts[0].GetPoints()
	require.Len(t, upserted, 1)
	assert.Equal(t, DocumentID(menuDoc()), upserted[0].GetId().GetUuid())
	assert.Equal(t, "event_menu", upserted[0].GetPayload()["document_type"].GetStringValue())
	assert.Equal(t, []embedders.TaskType{embedders.TaskRetrievalDocument, embedders.TaskRetrievalDocument}, embedder.calls)
}

func TestQdrantIndexEmbedFailure(t *testing.T) {
	points := &fakePoints{exists: true}
	q := newQdrant(points, &fakeEmbedder{err: errors.New("quota")}, "catering_events", 768)

	err := q.Index(context.Background(), []models.IndexDocument{menuDoc()})
	assert.ErrorContains(t, err, "quota")
	assert.Empty(t, points.upserts)
}

func TestQdrantSearch(t *testing.T) {
	points := &fakePoints{
		exists: true,
		queryResult: []*qdrant.ScoredPoint{
			{
				Score: 0.91,
				Payload: qdrant.NewValueMap(map[string]any{
					"content":       "Event: Smith Reunion",
					"document_type": "event_details",
					"event_name":    "Smith Reunion",
					"prices":        []any{"$25.00"},
				}),
			},
		},
	}
	embedder := &fakeEmbedder{}
	q := newQdrant(points, embedder, "catering_events", 768)

	matches, err := q.Search(context.Background(), "reunion dinner", models.DocumentTypeEventDetails, 3)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, models.DocumentTypeEventDetails, matches[0].DocumentType)
	assert.Equal(t, "Event: Smith Reunion", matches[0].Content)
	assert.Equal(t, []interface{}{"$25.00"}, matches[0].Metadata["prices"])
	assert.NotContains(t, matches[0].Metadata, "content")

	require.Len(t, points.queries, 1)
	assert.Equal(t, uint64(3), points.queries[0].GetLimit())
	require.NotNil(t, points.queries[0].GetFilter())
	assert.Len(t, points.queries[0].GetFilter().GetMust(), 1)
	assert.Equal(t, []embedders.TaskType{embedders.TaskRetrievalQuery}, embedder.calls)

	_, err = q.Search(context.Background(), "anything", "", 0)
	require.NoError(t, err)
	assert.Nil(t, points.queries[1].GetFilter())
	assert.Equal(t, uint64(5), points.queries[1].GetLimit())
}

func TestKafkaFeedPublishesEachDocument(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	doc := menuDoc()
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var msg FeedMessage
		if err := json.Unmarshal(val, &msg); err != nil {
			return err
		}
		if msg.ID != DocumentID(doc) || msg.DocumentType != models.DocumentTypeEventMenu {
			return errors.New("unexpected message")
		}
		return nil
	})
	producer.ExpectSendMessageAndSucceed()

	feed := NewKafkaFeedWithProducer(producer, "catering-events")
	base := models.IndexDocument{Content: "Base Menu Pricing:", DocumentType: models.DocumentTypeBasePricing}
	require.NoError(t, feed.Index(context.Background(), []models.IndexDocument{doc, base}))
	require.NoError(t, feed.Close())
}

func TestKafkaFeedFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	feed := NewKafkaFeedWithProducer(producer, "catering-events")
	err := feed.Index(context.Background(), []models.IndexDocument{menuDoc()})
	assert.ErrorContains(t, err, "failed to publish 1 documents to catering-events")
	require.NoError(t, feed.Close())
}

type stubIndexer struct {
	got int
	err error
}

func (s *stubIndexer) Index(ctx context.Context, docs []models.IndexDocument) error {
	s.got += len(docs)
	return s.err
}

func TestMultiStopsAtFirstFailure(t *testing.T) {
	first := &stubIndexer{}
	failing := &stubIndexer{err: errors.New("qdrant down")}
	last := &stubIndexer{}

	err := Multi{first, failing, last}.Index(context.Background(), []models.IndexDocument{menuDoc()})
	assert.EqualError(t, err, "qdrant down")
	assert.Equal(t, 1, first.got)
	assert.Equal(t, 1, failing.got)
	assert.Equal(t, 0, last.got)
}
