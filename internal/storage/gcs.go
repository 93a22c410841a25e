package storage

import (
	"context"
	"fmt"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

// GCSObject overwrites one object with the summary catalog.
type GCSObject struct {
	client *gcs.Client
	bucket string
	object string
	now    func() time.Time
}

func NewGCSObject(ctx context.Context, bucket, object, credentialsFile string, opts ...option.ClientOption) (*GCSObject, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSObject{client: client, bucket: bucket, object: object, now: time.Now}, nil
}

func (g *GCSObject) Save(ctx context.Context, summaries []models.EventSummary) error {
	writer := g.client.Bucket(g.bucket).Object(g.object).NewWriter(ctx)
	writer.ContentType = "application/json"

	if err := encodeEnvelope(writer, newEnvelope(summaries, g.now())); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to upload gs://%s/%s: %w", g.bucket, g.object, err)
	}
	return nil
}

func (g *GCSObject) Close() error {
	return g.client.Close()
}
