// Package source lists and opens the documents a batch run processes.
package source

import (
	"context"
	"fmt"
	"io"

	"github.com/NEMYSESx/menu-ingest/internal/config"
	"github.com/NEMYSESx/menu-ingest/internal/models"
)

// Lister yields document references in a stable order and opens them.
type Lister interface {
	Name() string
	List(ctx context.Context) ([]models.SourceRef, error)
	Open(ctx context.Context, ref models.SourceRef) (io.ReadCloser, error)
}

// Filter reports whether a filename should be listed.
type Filter func(filename string) bool

func acceptAll(string) bool { return true }

// FromConfig builds the lister selected by cfg.Type. The returned close
// function releases any client connections.
func FromConfig(ctx context.Context, cfg *config.SourceConfig, filter Filter) (Lister, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Type {
	case config.SourceLocal:
		return NewLocalDir(cfg.Dir, filter), noop, nil
	case config.SourceGCS:
		bucket, err := NewGCSBucket(ctx, cfg.Bucket, cfg.Prefix, cfg.CredentialsFile, filter)
		if err != nil {
			return nil, nil, err
		}
		return bucket, bucket.Close, nil
	case config.SourceDrive:
		folder, err := NewDriveFolder(ctx, cfg.FolderID, filter, driveOptions(cfg.CredentialsFile)...)
		if err != nil {
			return nil, nil, err
		}
		return folder, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown source type: %s", cfg.Type)
}
