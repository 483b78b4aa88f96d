package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/niksi-nova/swasthya-ai/internal/config"
	"github.com/niksi-nova/swasthya-ai/internal/ocr"
	"github.com/niksi-nova/swasthya-ai/internal/pipeline"
)

// buildPipeline constructs the extraction pipeline from the centralized
// configuration with CLI flag overrides.
func buildPipeline(cfg *config.Config, cmd *cobra.Command, progress pipeline.ProgressCallback) (*pipeline.Pipeline, error) {
	lookahead := cfg.Extractor.LookaheadLines
	if cmd.Flags().Changed("lookahead") {
		lookahead, _ = cmd.Flags().GetInt("lookahead")
	}

	minTableCells := cfg.Extractor.MinTableCells
	if cmd.Flags().Changed("min-table-cells") {
		minTableCells, _ = cmd.Flags().GetInt("min-table-cells")
	}

	builder := pipeline.NewBuilder().
		WithRules(cfg.Extractor.Rules()).
		WithLookahead(lookahead).
		WithMinTableCells(minTableCells).
		WithProgressCallback(progress)

	engine, err := buildOCREngine(cfg, cmd)
	if err != nil {
		return nil, err
	}
	if engine != nil {
		builder = builder.WithOCREngine(engine)
	}

	return builder.Build(), nil
}

// buildOCREngine constructs the remote OCR engine when an endpoint is
// configured. Without one, scanned pages fail with a clear error.
func buildOCREngine(cfg *config.Config, cmd *cobra.Command) (ocr.Engine, error) {
	endpoint := cfg.OCR.Endpoint
	if cmd.Flags().Changed("ocr-endpoint") {
		endpoint, _ = cmd.Flags().GetString("ocr-endpoint")
	}
	if endpoint == "" {
		return nil, nil
	}

	return ocr.NewRemoteEngine(endpoint,
		ocr.WithTimeout(time.Duration(cfg.OCR.TimeoutSec)*time.Second),
		ocr.WithPreprocessing(ocr.PreprocessOptions{
			Height:    cfg.OCR.ImageHeight,
			Grayscale: cfg.OCR.Grayscale,
		}),
	)
}

// addExtractionFlags registers the flags shared by commands that run
// the extraction pipeline.
func addExtractionFlags(cmd *cobra.Command) {
	cmd.Flags().String("ocr-endpoint", "", "URL of the OCR service for scanned pages")
	cmd.Flags().Int("lookahead", 0, "lines searched for a result after a test name")
	cmd.Flags().Int("min-table-cells", 0, "cell count above which a row is treated as tabular")
}
