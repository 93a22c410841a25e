package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

type LocalDir struct {
	dir    string
	filter Filter
}

func NewLocalDir(dir string, filter Filter) *LocalDir {
	if filter == nil {
		filter = acceptAll
	}
	return &LocalDir{dir: dir, filter: filter}
}

func (l *LocalDir) Name() string {
	return "local directory " + l.dir
}

// List returns the regular files directly inside the directory, sorted by name.
func (l *LocalDir) List(ctx context.Context) ([]models.SourceRef, error) {
	if err := checkDir(l.dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", l.dir, err)
	}

	refs := []models.SourceRef{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() || !l.filter(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		refs = append(refs, models.SourceRef{
			ID:         filepath.Join(l.dir, entry.Name()),
			Filename:   entry.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Filename < refs[j].Filename })
	return refs, nil
}

func (l *LocalDir) Open(ctx context.Context, ref models.SourceRef) (io.ReadCloser, error) {
	f, err := os.Open(ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", ref.Filename, err)
	}
	return f, nil
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("source directory does not exist: %s", dir)
		}
		return fmt.Errorf("cannot access source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source path is not a directory: %s", dir)
	}
	return nil
}
