package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/niksi-nova/swasthya-ai/internal/pipeline"
)

// summaryFileName is the aggregate summary written into the output dir.
const summaryFileName = "extraction_summary.json"

// SaveSummary writes the formatted summary to the output file, or to
// stdout when no file is configured. The xlsx format always needs a
// file path.
func SaveSummary(summary *pipeline.BatchSummary, config *Config) error {
	if config.Format == "xlsx" {
		if config.OutputFile == "" {
			return fmt.Errorf("xlsx output requires --output")
		}
		if err := WriteXLSX(summary, config.OutputFile); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(os.Stdout, "Results written to %s\n", config.OutputFile)
		}
		return nil
	}

	output, err := FormatSummary(summary, config.Format, config.Pretty)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if config.OutputFile != "" {
		if err := os.WriteFile(config.OutputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !config.Quiet {
			fmt.Fprintf(os.Stdout, "Results written to %s\n", config.OutputFile)
		}
		return nil
	}

	fmt.Fprint(os.Stdout, output)
	return nil
}

// SaveOutputDir writes one result file per document plus an aggregate
// summary into the output directory. Per-document files are named
// <stem>_extracted.<ext> after the source file.
func SaveOutputDir(summary *pipeline.BatchSummary, config *Config) error {
	if config.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(config.OutputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	format := config.Format
	if format == "xlsx" {
		// Per-document workbooks are not useful; fall back to json.
		format = "json"
	}

	for _, doc := range summary.Documents {
		output, err := FormatResult(doc, format, config.Pretty)
		if err != nil {
			return fmt.Errorf("failed to format %s: %w", doc.Source, err)
		}

		path := filepath.Join(config.OutputDir, documentFileName(doc.Source, format))
		if err := os.WriteFile(path, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	summaryPath := filepath.Join(config.OutputDir, summaryFileName)
	if err := os.WriteFile(summaryPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// documentFileName derives the per-document output file name from the
// source path and format.
func documentFileName(source, format string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	ext := format
	if format == "text" {
		ext = "txt"
	}
	return stem + "_extracted." + ext
}
