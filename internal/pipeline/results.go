package pipeline

import (
	"time"

	"github.com/niksi-nova/swasthya-ai/internal/extract"
	"github.com/niksi-nova/swasthya-ai/internal/pdf"
)

// ExtractionResult is the per-document output of the pipeline.
// Fields is never nil so that JSON output always carries a list.
type ExtractionResult struct {
	Success     bool            `json:"success"`
	Source      string          `json:"source"`
	Timestamp   time.Time       `json:"timestamp"`
	TotalFields int             `json:"total_fields"`
	Metadata    *pdf.Metadata   `json:"metadata,omitempty"`
	Fields      []extract.Field `json:"fields"`
	Error       string          `json:"error,omitempty"`
	Processing  *ProcessingInfo `json:"processing,omitempty"`
}

// ProcessingInfo records per-document timing.
type ProcessingInfo struct {
	ExtractionMs int64 `json:"extraction_ms"`
	OCRMs        int64 `json:"ocr_ms"`
	TotalMs      int64 `json:"total_ms"`
	PagesScanned int   `json:"pages_scanned"`
}

// BatchSummary aggregates a batch run.
type BatchSummary struct {
	Processed   int                 `json:"processed"`
	Successful  int                 `json:"successful"`
	Failed      int                 `json:"failed"`
	TotalFields int                 `json:"total_fields"`
	Timestamp   time.Time           `json:"timestamp"`
	Documents   []*ExtractionResult `json:"documents"`
}

// NewResult builds a successful result for the given source.
func NewResult(source string, fields []extract.Field, meta *pdf.Metadata) *ExtractionResult {
	if fields == nil {
		fields = []extract.Field{}
	}
	return &ExtractionResult{
		Success:     true,
		Source:      source,
		Timestamp:   time.Now().UTC(),
		TotalFields: len(fields),
		Metadata:    meta,
		Fields:      fields,
	}
}

// NewFailedResult builds a failure result carrying the error message.
// The shape mirrors successful results so batch output stays uniform.
func NewFailedResult(source string, err error) *ExtractionResult {
	return &ExtractionResult{
		Success:   false,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Fields:    []extract.Field{},
		Error:     err.Error(),
	}
}

// NewBatchSummary aggregates individual document results.
func NewBatchSummary(documents []*ExtractionResult) *BatchSummary {
	summary := &BatchSummary{
		Timestamp: time.Now().UTC(),
		Documents: documents,
	}
	if summary.Documents == nil {
		summary.Documents = []*ExtractionResult{}
	}
	for _, doc := range documents {
		summary.Processed++
		if doc.Success {
			summary.Successful++
			summary.TotalFields += doc.TotalFields
		} else {
			summary.Failed++
		}
	}
	return summary
}
