package index

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/NEMYSESx/menu-ingest/internal/config"
	"github.com/NEMYSESx/menu-ingest/internal/logger"
	"github.com/NEMYSESx/menu-ingest/internal/models"
)

// FeedMessage is the record published for each indexed document.
type FeedMessage struct {
	ID             string                 `json:"id"`
	DocumentType   models.DocumentType    `json:"document_type"`
	SourceFilename string                 `json:"source_filename,omitempty"`
	SourceID       string                 `json:"source_id,omitempty"`
	Content        string                 `json:"content"`
	Metadata       map[string]interface{} `json:"metadata"`
	PublishedAt    string                 `json:"published_at"`
}

// KafkaFeed publishes documents to a topic for downstream consumers.
type KafkaFeed struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
}

func NewKafkaFeed(cfg *config.KafkaConfig) (*KafkaFeed, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = cfg.Retries
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Timeout = cfg.Timeout

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return NewKafkaFeedWithProducer(producer, cfg.Topic), nil
}

func NewKafkaFeedWithProducer(producer sarama.SyncProducer, topic string) *KafkaFeed {
	return &KafkaFeed{producer: producer, topic: topic, now: time.Now}
}

func (k *KafkaFeed) Index(ctx context.Context, docs []models.IndexDocument) error {
	if len(docs) == 0 {
		return nil
	}

	messages := make([]*sarama.ProducerMessage, 0, len(docs))
	for _, doc := range docs {
		msg, err := k.message(doc)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := k.producer.SendMessages(messages); err != nil {
		logger.GetLogger().Errorw("Failed to publish documents", "topic", k.topic, "error", err)
		return fmt.Errorf("failed to publish %d documents to %s: %w", len(messages), k.topic, err)
	}

	logger.GetLogger().Infow("Published documents", "topic", k.topic, "count", len(messages))
	return nil
}

func (k *KafkaFeed) message(doc models.IndexDocument) (*sarama.ProducerMessage, error) {
	id := DocumentID(doc)
	metadata, err := normalize(doc.Metadata)
	if err != nil {
		return nil, err
	}

	now := k.now()
	data, err := json.Marshal(FeedMessage{
		ID:             id,
		DocumentType:   doc.DocumentType,
		SourceFilename: doc.SourceFilename,
		SourceID:       doc.SourceID,
		Content:        doc.Content,
		Metadata:       metadata,
		PublishedAt:    now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	return &sarama.ProducerMessage{
		Topic:     k.topic,
		Key:       sarama.StringEncoder(id),
		Value:     sarama.ByteEncoder(data),
		Timestamp: now,
	}, nil
}

func (k *KafkaFeed) Close() error {
	return k.producer.Close()
}
