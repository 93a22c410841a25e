package tika

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/NEMYSESx/menu-ingest/internal/text"
)

// PlainText passes .txt blobs through without a Tika round trip.
type PlainText struct {
	cleaner *text.Cleaner
}

func NewPlainText(cleaner *text.Cleaner) *PlainText {
	return &PlainText{cleaner: cleaner}
}

func (p *PlainText) Extract(ctx context.Context, filename string, content []byte) (*Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := string(content)
	if !utf8.ValidString(raw) {
		raw = strings.ToValidUTF8(raw, "")
	}
	if p.cleaner != nil {
		raw = p.cleaner.Clean(raw)
	}
	return &Extraction{Text: raw, Pages: 1}, nil
}

type extractor interface {
	Extract(ctx context.Context, filename string, content []byte) (*Extraction, error)
}

// Router sends plain-text files to PlainText and everything else to Tika.
type Router struct {
	plain    extractor
	fallback extractor
}

func NewRouter(plain, fallback extractor) *Router {
	return &Router{plain: plain, fallback: fallback}
}

func (r *Router) Extract(ctx context.Context, filename string, content []byte) (*Extraction, error) {
	if strings.EqualFold(filepath.Ext(filename), ".txt") {
		return r.plain.Extract(ctx, filename, content)
	}
	return r.fallback.Extract(ctx, filename, content)
}
