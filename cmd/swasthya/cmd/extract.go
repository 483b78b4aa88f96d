package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/niksi-nova/swasthya-ai/internal/batch"
)

// extractCmd represents the extract command for single reports.
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract test results from a single lab report PDF",
	Long: `Extract (test, result) pairs from one laboratory report PDF.

The report's text layer is scanned line by line; structured table rows
are parsed directly, and scanned pages are sent to the configured OCR
service.

Examples:
  swasthya extract report.pdf
  swasthya extract report.pdf --format csv --output results.csv
  swasthya extract scan.pdf --ocr-endpoint http://localhost:9090/ocr/image`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runExtractCommand,
}

func runExtractCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}

	outputFile := cfg.Output.File
	if cmd.Flags().Changed("output") {
		outputFile, _ = cmd.Flags().GetString("output")
	}

	pretty := cfg.Output.Pretty
	if cmd.Flags().Changed("pretty") {
		pretty, _ = cmd.Flags().GetBool("pretty")
	}

	pl, err := buildPipeline(cfg, cmd, nil)
	if err != nil {
		return err
	}

	result, err := pl.ProcessFile(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	output, err := batch.FormatResult(result, format, pretty)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("format", "f", "", "output format (text, json, csv, yaml)")
	extractCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	extractCmd.Flags().Bool("pretty", false, "pretty-print json output")
	addExtractionFlags(extractCmd)
}
