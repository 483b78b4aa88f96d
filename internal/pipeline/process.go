package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksi-nova/swasthya-ai/internal/extract"
	"github.com/niksi-nova/swasthya-ai/internal/pdf"
)

// ErrNoOCREngine is returned when a scanned page is encountered but no
// recognition engine was configured.
var ErrNoOCREngine = errors.New("scanned page requires an OCR engine but none is configured")

// Page stage names used in progress updates.
const (
	StageTables = "tables"
	StageText   = "text"
	StageOCR    = "ocr"
	StageEmpty  = "empty"
)

// ProcessFile opens and processes a report PDF. The returned error
// covers the whole document; callers doing batch work wrap it with
// NewFailedResult and move on.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*ExtractionResult, error) {
	doc, err := pdf.Open(path, p.cfg.MinTableCells)
	if err != nil {
		return nil, err
	}
	return p.ProcessDocument(ctx, doc)
}

// ProcessDocument extracts all fields from an opened document. Pages
// are processed strictly in order; the context is checked between
// pages for coarse cancellation.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc *pdf.Document) (*ExtractionResult, error) {
	start := time.Now()
	total := doc.PageCount()

	var fields []extract.Field
	var ocrTime time.Duration

	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("processing cancelled: %w", err)
		}

		page, err := doc.Page(n)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}

		pageFields, stage, ocrDur, err := p.processPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		ocrTime += ocrDur
		fields = append(fields, pageFields...)

		p.reportProgress(ProgressUpdate{
			Source:     doc.Path(),
			Page:       n,
			TotalPages: total,
			Stage:      stage,
			Fields:     len(pageFields),
		})
	}

	// Duplicates are collapsed at document scope so the same test
	// repeated across pages or formats appears once.
	unique := extract.Dedupe(fields)

	meta := doc.Metadata()
	result := NewResult(doc.Path(), unique, &meta)
	result.Processing = &ProcessingInfo{
		ExtractionMs: time.Since(start).Milliseconds() - ocrTime.Milliseconds(),
		OCRMs:        ocrTime.Milliseconds(),
		TotalMs:      time.Since(start).Milliseconds(),
		PagesScanned: total,
	}

	slog.Info("document processed",
		"source", doc.Path(),
		"pages", total,
		"fields", len(unique),
		"duration", time.Since(start))

	return result, nil
}

// ProcessText extracts fields from raw report text, bypassing the
// document layer entirely.
func (p *Pipeline) ProcessText(text string) *ExtractionResult {
	fields := extract.Dedupe(p.scanner.Scan(text))
	return NewResult("text", fields, nil)
}

// processPage applies the extraction strategy for one page: structured
// table rows when present, the multi-line scanner for plain text, and
// OCR followed by the scanner for scanned pages.
func (p *Pipeline) processPage(ctx context.Context, page *pdf.Page) ([]extract.Field, string, time.Duration, error) {
	switch {
	case len(page.Tables) > 0:
		var fields []extract.Field
		for _, row := range page.Tables {
			if tf, ok := extract.ParseRow(row); ok {
				fields = append(fields, tf.Field())
			}
		}
		// Rows too loose for the table pattern may still pair up in the
		// multi-line scan of the page text.
		fields = append(fields, p.scanner.Scan(page.Text)...)
		return fields, StageTables, 0, nil

	case page.Text != "":
		return p.scanner.Scan(page.Text), StageText, 0, nil

	case page.Image != nil:
		if p.engine == nil {
			return nil, StageOCR, 0, ErrNoOCREngine
		}
		start := time.Now()
		text, err := p.engine.Recognize(ctx, page.Image)
		ocrDur := time.Since(start)
		if err != nil {
			return nil, StageOCR, ocrDur, fmt.Errorf("recognition failed: %w", err)
		}
		return p.scanner.Scan(text), StageOCR, ocrDur, nil

	default:
		return nil, StageEmpty, 0, nil
	}
}
