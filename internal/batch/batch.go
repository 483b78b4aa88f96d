// Package batch provides batch processing of report files: discovery,
// sequential per-document extraction with failure isolation, summary
// formatting, and export.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksi-nova/swasthya-ai/internal/pipeline"
)

// Config holds all configuration for batch processing.
type Config struct {
	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// ContinueOnError keeps the batch running past failed documents.
	// When false, the first failure aborts the batch.
	ContinueOnError bool

	// Output settings
	Format     string
	OutputFile string
	OutputDir  string
	Pretty     bool
	Quiet      bool
}

// DocumentProcessor turns one report file into an extraction result.
// *pipeline.Pipeline satisfies this; tests substitute stubs.
type DocumentProcessor interface {
	ProcessFile(ctx context.Context, path string) (*pipeline.ExtractionResult, error)
}

// ProcessBatch discovers report files under the given paths and
// processes them strictly in order. A failing document becomes a failed
// entry in the summary and never aborts the batch unless
// ContinueOnError is off.
func ProcessBatch(ctx context.Context, processor DocumentProcessor, paths []string, config *Config) (*pipeline.BatchSummary, error) {
	files, err := discoverReportFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover report files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no report files found")
	}

	start := time.Now()
	results := make([]*pipeline.ExtractionResult, 0, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch cancelled: %w", err)
		}

		result, err := processor.ProcessFile(ctx, file)
		if err != nil {
			slog.Error("document failed", "source", file, "error", err)
			results = append(results, pipeline.NewFailedResult(file, err))
			if !config.ContinueOnError {
				return pipeline.NewBatchSummary(results), fmt.Errorf("processing %s: %w", file, err)
			}
			continue
		}
		results = append(results, result)
	}

	summary := pipeline.NewBatchSummary(results)
	slog.Info("batch completed",
		"processed", summary.Processed,
		"successful", summary.Successful,
		"failed", summary.Failed,
		"fields", summary.TotalFields,
		"duration", time.Since(start))

	return summary, nil
}
