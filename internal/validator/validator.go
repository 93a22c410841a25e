package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/NEMYSESx/menu-ingest/internal/config"
)

type FileValidator struct {
	config *config.ProcessingConfig
}

func NewFileValidator(cfg *config.ProcessingConfig) *FileValidator {
	return &FileValidator{
		config: cfg,
	}
}

// Validate checks size, extension and, for PDFs, the sniffed content type.
func (fv *FileValidator) Validate(filename string, content []byte) error {
	maxSizeBytes := fv.config.MaxFileSize * 1024 * 1024

	if int64(len(content)) > maxSizeBytes {
		return fmt.Errorf("file size (%d bytes) exceeds maximum allowed size (%d MB)",
			len(content), fv.config.MaxFileSize)
	}

	if !fv.IsSupported(filename) {
		return fmt.Errorf("unsupported file format: %s", filepath.Ext(filename))
	}

	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		detected := mimetype.Detect(content)
		if !detected.Is("application/pdf") {
			return fmt.Errorf("content of %s is %s, not a PDF", filename, detected.String())
		}
	}

	return nil
}

func (fv *FileValidator) IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && ext[0] == '.' {
		ext = ext[1:]
	}

	for _, supported := range fv.config.SupportedFormats {
		if strings.ToLower(supported) == ext {
			return true
		}
	}
	return false
}
