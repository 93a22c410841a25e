package tika

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/NEMYSESx/menu-ingest/internal/config"
	"github.com/NEMYSESx/menu-ingest/internal/logger"
	"github.com/NEMYSESx/menu-ingest/internal/text"
)

var ErrEmptyPage = errors.New("page produced no text")

type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

type Extraction struct {
	Text       string
	Pages      int
	PageErrors []*PageError
}

type Client struct {
	config     *config.TikaConfig
	httpClient *http.Client
	cleaner    *text.Cleaner
}

func NewClient(cfg *config.TikaConfig, cleaner *text.Cleaner) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cleaner: cleaner,
	}
}

// Extract sends the document to Tika and returns its text page by page.
// Pages that yield no text are reported in PageErrors and do not fail the call.
func (c *Client) Extract(ctx context.Context, filename string, content []byte) (*Extraction, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		result, err := c.extractAttempt(ctx, filename, content)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		logger.GetLogger().Debugw("Tika extraction attempt failed",
			"filename", filename, "attempt", attempt+1, "error", err)
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.config.RetryAttempts+1, lastErr)
}

func (c *Client) extractAttempt(ctx context.Context, filename string, content []byte) (*Extraction, error) {
	tikaURL := fmt.Sprintf("%s/tika", strings.TrimRight(c.config.ServerURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, tikaURL, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", ContentType(filename))
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute tika request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tika server returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	pages, err := splitPages(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tika response: %w", err)
	}

	return c.assemble(filename, pages), nil
}

func (c *Client) assemble(filename string, pages []string) *Extraction {
	result := &Extraction{Pages: len(pages)}
	var b strings.Builder

	for i, page := range pages {
		cleaned := page
		if c.cleaner != nil {
			cleaned = c.cleaner.Clean(page)
		}
		if strings.TrimSpace(cleaned) == "" {
			pageErr := &PageError{Page: i + 1, Err: ErrEmptyPage}
			result.PageErrors = append(result.PageErrors, pageErr)
			logger.GetLogger().Warnw("Page extraction failed", "filename", filename, "page", i+1, "error", pageErr.Err)
			continue
		}
		b.WriteString(cleaned)
		b.WriteString("\n")
	}

	result.Text = b.String()
	return result
}

func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".rtf":
		return "application/rtf"
	case ".odt":
		return "application/vnd.oasis.opendocument.text"
	}
	return "application/octet-stream"
}
