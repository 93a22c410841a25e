package source

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/NEMYSESx/menu-ingest/internal/config"
	"github.com/NEMYSESx/menu-ingest/internal/models"
)

func pdfOnly(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

func TestLocalDirListAndOpen(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"b_event.pdf": "%PDF-b",
		"a_event.PDF": "%PDF-a",
		"notes.txt":   "skip me",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	lister := NewLocalDir(dir, pdfOnly)
	refs, err := lister.List(context.Background())
	require.NoError(t, err)

	require.Len(t, refs, 2)
	assert.Equal(t, "a_event.PDF", refs[0].Filename)
	assert.Equal(t, "b_event.pdf", refs[1].Filename)
	assert.Equal(t, int64(6), refs[0].Size)

	rc, err := lister.Open(context.Background(), refs[1])
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-b", string(data))
}

func TestLocalDirMissing(t *testing.T) {
	_, err := NewLocalDir(filepath.Join(t.TempDir(), "missing"), nil).List(context.Background())
	assert.ErrorContains(t, err, "source directory does not exist")

	file := filepath.Join(t.TempDir(), "menu.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0o644))
	_, err = NewLocalDir(file, nil).List(context.Background())
	assert.ErrorContains(t, err, "source path is not a directory")
}

func TestObjectRef(t *testing.T) {
	updated := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	ref, ok := objectRef(&storage.ObjectAttrs{Name: "2024/may/gala.pdf", Size: 42, ContentType: "application/pdf", Updated: updated}, pdfOnly)
	require.True(t, ok)
	assert.Equal(t, models.SourceRef{ID: "2024/may/gala.pdf", Filename: "gala.pdf", MimeType: "application/pdf", Size: 42, ModifiedAt: updated}, ref)

	_, ok = objectRef(&storage.ObjectAttrs{Name: "2024/may/"}, pdfOnly)
	assert.False(t, ok)
	_, ok = objectRef(&storage.ObjectAttrs{Name: "2024/notes.txt"}, pdfOnly)
	assert.False(t, ok)
}

func TestDriveFolderListAndOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/files":
			assert.Equal(t, "'folder-1' in parents and mimeType='application/pdf' and trashed=false", r.URL.Query().Get("q"))
			assert.Equal(t, "name", r.URL.Query().Get("orderBy"))
			page := map[string]interface{}{
				"nextPageToken": "p2",
				"files": []map[string]string{
					{"id": "id-a", "name": "a_menu.pdf", "mimeType": "application/pdf", "size": "6", "modifiedTime": "2024-05-01T10:00:00Z"},
					{"id": "id-x", "name": "scan.jpeg", "mimeType": "application/pdf"},
				},
			}
			if r.URL.Query().Get("pageToken") == "p2" {
				page = map[string]interface{}{
					"files": []map[string]string{
						{"id": "id-b", "name": "b_menu.pdf", "mimeType": "application/pdf", "size": "6"},
					},
				}
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(page)
		case r.URL.Path == "/files/id-b" && r.URL.Query().Get("alt") == "media":
			_, _ = w.Write([]byte("%PDF-b"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	folder, err := NewDriveFolder(ctx, "folder-1", pdfOnly,
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	assert.Equal(t, "drive folder folder-1", folder.Name())

	refs, err := folder.List(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "a_menu.pdf", refs[0].Filename)
	assert.Equal(t, "id-a", refs[0].ID)
	assert.Equal(t, int64(6), refs[0].Size)
	assert.Equal(t, 2024, refs[0].ModifiedAt.Year())
	assert.Equal(t, "b_menu.pdf", refs[1].Filename)

	rc, err := folder.Open(ctx, refs[1])
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-b", string(data))

	_, err = folder.Open(ctx, models.SourceRef{ID: "missing", Filename: "missing.pdf"})
	assert.Error(t, err)
}

func TestDriveQueryEscapesQuotes(t *testing.T) {
	d := &DriveFolder{folderID: "it's"}
	assert.Equal(t, `'it\'s' in parents and mimeType='application/pdf' and trashed=false`, d.query())
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	lister, closeFn, err := FromConfig(context.Background(), &config.SourceConfig{Type: config.SourceLocal, Dir: dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, "local directory "+dir, lister.Name())
	assert.NoError(t, closeFn())

	_, _, err = FromConfig(context.Background(), &config.SourceConfig{Type: "ftp"}, nil)
	assert.ErrorContains(t, err, "unknown source type")
}
