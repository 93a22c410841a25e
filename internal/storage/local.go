package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

// LocalFile writes the summary catalog to a single JSON file. Writes go to a
// temp file in the same directory and are renamed into place.
type LocalFile struct {
	path string
	now  func() time.Time
}

func NewLocalFile(path string) *LocalFile {
	return &LocalFile{path: path, now: time.Now}
}

func (lf *LocalFile) Save(ctx context.Context, summaries []models.EventSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(lf.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(lf.path)+"_*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if err := encodeEnvelope(tempFile, newEnvelope(summaries, lf.now())); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, lf.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", lf.path, err)
	}
	return nil
}

func (lf *LocalFile) Load() (*SummaryEnvelope, error) {
	file, err := os.Open(lf.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return DecodeEnvelope(file)
}
