package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

type GCSBucket struct {
	client *storage.Client
	bucket string
	prefix string
	filter Filter
}

func NewGCSBucket(ctx context.Context, bucket, prefix, credentialsFile string, filter Filter, opts ...option.ClientOption) (*GCSBucket, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if filter == nil {
		filter = acceptAll
	}
	return &GCSBucket{client: client, bucket: bucket, prefix: prefix, filter: filter}, nil
}

func (g *GCSBucket) Name() string {
	return fmt.Sprintf("gs://%s/%s", g.bucket, g.prefix)
}

// List returns matching objects under the prefix in lexicographic order.
func (g *GCSBucket) List(ctx context.Context) ([]models.SourceRef, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: g.prefix})

	refs := []models.SourceRef{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list gs://%s: %w", g.bucket, err)
		}
		if ref, ok := objectRef(attrs, g.filter); ok {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func objectRef(attrs *storage.ObjectAttrs, filter Filter) (models.SourceRef, bool) {
	if attrs == nil || attrs.Name == "" || strings.HasSuffix(attrs.Name, "/") {
		return models.SourceRef{}, false
	}
	filename := attrs.Name[strings.LastIndex(attrs.Name, "/")+1:]
	if !filter(filename) {
		return models.SourceRef{}, false
	}
	return models.SourceRef{
		ID:         attrs.Name,
		Filename:   filename,
		MimeType:   attrs.ContentType,
		Size:       attrs.Size,
		ModifiedAt: attrs.Updated,
	}, true
}

func (g *GCSBucket) Open(ctx context.Context, ref models.SourceRef) (io.ReadCloser, error) {
	reader, err := g.client.Bucket(g.bucket).Object(ref.ID).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", g.bucket, ref.ID, err)
	}
	return reader, nil
}

func (g *GCSBucket) Close() error {
	return g.client.Close()
}
