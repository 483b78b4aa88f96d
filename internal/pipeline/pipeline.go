// Package pipeline orchestrates report extraction: it opens documents,
// picks the per-page strategy (table rows, multi-line text, or OCR),
// runs the extraction engine, and assembles deduplicated results.
package pipeline

import (
	"github.com/niksi-nova/swasthya-ai/internal/extract"
	"github.com/niksi-nova/swasthya-ai/internal/ocr"
)

// Config holds configuration for the extraction pipeline.
type Config struct {
	// Rules are the line-classification heuristics.
	Rules extract.Rules

	// LookaheadLines bounds the result search window after a name line.
	LookaheadLines int

	// MinTableCells is the cell count above which a text row is treated
	// as a table row.
	MinTableCells int
}

// DefaultConfig returns a pipeline config with engine defaults.
func DefaultConfig() Config {
	return Config{
		Rules:          extract.DefaultRules(),
		LookaheadLines: extract.DefaultLookahead,
		MinTableCells:  4,
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg      Config
	engine   ocr.Engine
	progress ProgressCallback
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithRules replaces the classification rules wholesale.
func (b *Builder) WithRules(rules extract.Rules) *Builder {
	b.cfg.Rules = rules
	return b
}

// WithSkipKeywords overrides the skip-keyword list.
func (b *Builder) WithSkipKeywords(keywords []string) *Builder {
	if len(keywords) > 0 {
		b.cfg.Rules.SkipKeywords = keywords
	}
	return b
}

// WithMethodMarkers overrides the method/annotation line markers.
func (b *Builder) WithMethodMarkers(markers []string) *Builder {
	if len(markers) > 0 {
		b.cfg.Rules.MethodMarkers = markers
	}
	return b
}

// WithLookahead sets the result search window (if >0).
func (b *Builder) WithLookahead(lines int) *Builder {
	if lines > 0 {
		b.cfg.LookaheadLines = lines
	}
	return b
}

// WithMinTableCells sets the tabular-row cell threshold (if >1).
func (b *Builder) WithMinTableCells(cells int) *Builder {
	if cells > 1 {
		b.cfg.MinTableCells = cells
	}
	return b
}

// WithOCREngine sets the recognition engine for scanned pages. Without
// one, scanned pages fail the document.
func (b *Builder) WithOCREngine(engine ocr.Engine) *Builder {
	b.engine = engine
	return b
}

// WithProgressCallback sets the per-page progress callback.
func (b *Builder) WithProgressCallback(callback ProgressCallback) *Builder {
	b.progress = callback
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// Build initializes the extraction pipeline.
func (b *Builder) Build() *Pipeline {
	classifier := extract.NewClassifier(b.cfg.Rules)

	return &Pipeline{
		cfg:        b.cfg,
		classifier: classifier,
		scanner:    extract.NewScanner(classifier, b.cfg.LookaheadLines),
		engine:     b.engine,
		progress:   b.progress,
	}
}

// Pipeline wires the classifier, scanner, and OCR engine together.
type Pipeline struct {
	cfg        Config
	classifier *extract.Classifier
	scanner    *extract.Scanner
	engine     ocr.Engine
	progress   ProgressCallback
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }
