package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

const driveFileFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime)"

type DriveFolder struct {
	service  *drive.Service
	folderID string
	filter   Filter
}

func driveOptions(credentialsFile string) []option.ClientOption {
	opts := []option.ClientOption{option.WithScopes(drive.DriveReadonlyScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return opts
}

func NewDriveFolder(ctx context.Context, folderID string, filter Filter, opts ...option.ClientOption) (*DriveFolder, error) {
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	if filter == nil {
		filter = acceptAll
	}
	return &DriveFolder{service: service, folderID: folderID, filter: filter}, nil
}

func (d *DriveFolder) Name() string {
	return "drive folder " + d.folderID
}

func (d *DriveFolder) query() string {
	folder := strings.ReplaceAll(d.folderID, `'`, `\'`)
	return fmt.Sprintf("'%s' in parents and mimeType='application/pdf' and trashed=false", folder)
}

// List pages through the folder's PDFs ordered by name.
func (d *DriveFolder) List(ctx context.Context) ([]models.SourceRef, error) {
	refs := []models.SourceRef{}

	call := d.service.Files.List().
		Q(d.query()).
		OrderBy("name").
		Fields(driveFileFields).
		PageSize(100)

	err := call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			if !d.filter(f.Name) {
				continue
			}
			ref := models.SourceRef{
				ID:       f.Id,
				Filename: f.Name,
				MimeType: f.MimeType,
				Size:     f.Size,
			}
			if modified, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
				ref.ModifiedAt = modified
			}
			refs = append(refs, ref)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list drive folder %s: %w", d.folderID, err)
	}
	return refs, nil
}

func (d *DriveFolder) Open(ctx context.Context, ref models.SourceRef) (io.ReadCloser, error) {
	resp, err := d.service.Files.Get(ref.ID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", ref.Filename, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("drive download of %s returned status %d", ref.Filename, resp.StatusCode)
	}
	return resp.Body, nil
}
