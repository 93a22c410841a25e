package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NEMYSESx/menu-ingest/internal/config"
	"github.com/NEMYSESx/menu-ingest/internal/extract"
	"github.com/NEMYSESx/menu-ingest/internal/index"
	"github.com/NEMYSESx/menu-ingest/internal/logger"
	"github.com/NEMYSESx/menu-ingest/internal/metrics"
	"github.com/NEMYSESx/menu-ingest/internal/models"
	"github.com/NEMYSESx/menu-ingest/internal/record"
	"github.com/NEMYSESx/menu-ingest/internal/source"
	"github.com/NEMYSESx/menu-ingest/internal/storage"
	"github.com/NEMYSESx/menu-ingest/internal/tika"
	"github.com/NEMYSESx/menu-ingest/internal/validator"
)

type TextExtractor interface {
	Extract(ctx context.Context, filename string, content []byte) (*tika.Extraction, error)
}

type Validator interface {
	Validate(filename string, content []byte) error
}

// Pipeline turns every document of a source into event records, persists
// their summaries and hands the records to the indexer. Sink, Indexer and
// Metrics are optional.
type Pipeline struct {
	Source      source.Lister
	Text        TextExtractor
	Validator   Validator
	Extractor   *extract.Extractor
	Sink        storage.SummarySink
	Indexer     index.Indexer
	BasePricing record.BasePricing
	Metrics     *metrics.Recorder

	MaxConcurrency     int
	PerDocumentTimeout time.Duration
}

func New(cfg *config.ProcessingConfig, src source.Lister, text TextExtractor) *Pipeline {
	return &Pipeline{
		Source:             src,
		Text:               text,
		Validator:          validator.NewFileValidator(cfg),
		Extractor:          extract.NewExtractor(),
		BasePricing:        record.DefaultBasePricing(),
		MaxConcurrency:     cfg.MaxConcurrency,
		PerDocumentTimeout: cfg.PerDocumentTimeout,
	}
}

type outcome struct {
	record  *models.EventRecord
	skipped bool
	err     *DocumentError
}

func (p *Pipeline) Run(ctx context.Context) (*models.BatchResult, error) {
	start := time.Now()
	log := logger.GetLogger()

	refs, err := p.Source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", p.Source.Name(), err)
	}
	log.Infow("Starting batch", "source", p.Source.Name(), "documents", len(refs))

	outcomes := make([]outcome, len(refs))

	limit := p.MaxConcurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, ref := range refs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.processRef(gctx, ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &models.BatchResult{TotalFiles: len(refs)}
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			result.ErrorCount++
			result.ErrorDetails = append(result.ErrorDetails, o.err.Error())
		case o.skipped:
			result.SkippedCount++
		case o.record != nil:
			result.SuccessCount++
			result.Records = append(result.Records, *o.record)
			result.Summaries = append(result.Summaries, o.record.Summary())
			result.Documents = append(result.Documents, record.Documents(*o.record)...)
		}
	}

	if len(result.Records) == 0 {
		log.Errorw("Batch produced no records",
			"source", p.Source.Name(),
			"total", result.TotalFiles,
			"skipped", result.SkippedCount,
			"failed", result.ErrorCount)
		return result, &EmptyBatchError{Source: p.Source.Name()}
	}

	if p.Sink != nil {
		if err := p.Sink.Save(ctx, result.Summaries); err != nil {
			return result, fmt.Errorf("failed to persist summaries: %w", err)
		}
	}

	base, err := p.BasePricing.Document()
	if err != nil {
		return result, fmt.Errorf("failed to render base pricing: %w", err)
	}
	result.Documents = append(result.Documents, base)

	if p.Indexer != nil {
		if err := p.Indexer.Index(ctx, result.Documents); err != nil {
			return result, fmt.Errorf("failed to index documents: %w", err)
		}
		p.Metrics.Indexed(result.Documents)
	}

	result.TotalTime = time.Since(start)
	log.Infow("Batch complete",
		"source", p.Source.Name(),
		"total", result.TotalFiles,
		"records", result.SuccessCount,
		"skipped", result.SkippedCount,
		"failed", result.ErrorCount,
		"documents", len(result.Documents),
		"duration", result.TotalTime)

	return result, nil
}

func (p *Pipeline) processRef(ctx context.Context, ref models.SourceRef) outcome {
	start := time.Now()
	log := logger.GetLogger()

	docCtx := ctx
	if p.PerDocumentTimeout > 0 {
		var cancel context.CancelFunc
		docCtx, cancel = context.WithTimeout(ctx, p.PerDocumentTimeout)
		defer cancel()
	}

	rec, err := p.processDocument(docCtx, ref)
	if err != nil {
		var docErr *DocumentError
		if !errors.As(err, &docErr) {
			docErr = &DocumentError{Filename: ref.Filename, Stage: StageParse, Err: err}
		}
		if ctx.Err() == nil && errors.Is(docCtx.Err(), context.DeadlineExceeded) {
			docErr = &DocumentError{Filename: ref.Filename, Stage: StageTimeout, Err: docErr.Err}
		}
		log.Warnw("Skipping document",
			"filename", ref.Filename,
			"stage", string(docErr.Stage),
			"error", docErr.Err)
		p.Metrics.Document(metrics.OutcomeFailed, time.Since(start))
		return outcome{err: docErr}
	}

	if rec == nil {
		log.Infow("No text extracted, skipping document", "filename", ref.Filename)
		p.Metrics.Document(metrics.OutcomeEmpty, time.Since(start))
		return outcome{skipped: true}
	}

	p.Metrics.Document(metrics.OutcomeIndexed, time.Since(start))
	log.Debugw("Processed document",
		"filename", ref.Filename,
		"event_name", rec.EventName,
		"contact_email", logger.MaskEmail(rec.Email),
		"prices", len(rec.Prices),
		"pricing_lines", rec.PricingBreakdown.LineCount())
	return outcome{record: rec}
}

// processDocument returns a nil record when the document has no text. A
// panic in any step becomes a DocumentError for the step that raised it.
func (p *Pipeline) processDocument(ctx context.Context, ref models.SourceRef) (rec *models.EventRecord, err error) {
	stage := StageRead
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = &DocumentError{Filename: ref.Filename, Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	rc, err := p.Source.Open(ctx, ref)
	if err != nil {
		return nil, &DocumentError{Filename: ref.Filename, Stage: StageRead, Err: err}
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, &DocumentError{Filename: ref.Filename, Stage: StageRead, Err: err}
	}

	stage = StageValidate
	if p.Validator != nil {
		if err := p.Validator.Validate(ref.Filename, content); err != nil {
			return nil, &DocumentError{Filename: ref.Filename, Stage: StageValidate, Err: err}
		}
	}

	stage = StageExtract
	extraction, err := p.Text.Extract(ctx, ref.Filename, content)
	if err != nil {
		return nil, &DocumentError{Filename: ref.Filename, Stage: StageExtract, Err: err}
	}
	if extraction == nil {
		return nil, nil
	}
	if len(extraction.PageErrors) > 0 {
		logger.GetLogger().Warnw("Document has unreadable pages",
			"filename", ref.Filename,
			"pages", extraction.Pages,
			"failed_pages", len(extraction.PageErrors))
	}
	if strings.TrimSpace(extraction.Text) == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, &DocumentError{Filename: ref.Filename, Stage: StageExtract, Err: err}
	}

	stage = StageParse
	extracted := p.Extractor.Extract(extraction.Text, ref.Filename)
	extracted.SourceID = ref.ID
	return &extracted, nil
}
