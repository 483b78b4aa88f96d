package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/niksi-nova/swasthya-ai/internal/batch"
	"github.com/niksi-nova/swasthya-ai/internal/config"
	"github.com/niksi-nova/swasthya-ai/internal/store"
)

// batchCmd represents the batch command for processing report sets.
var batchCmd = &cobra.Command{
	Use:   "batch [files or directories...]",
	Short: "Process multiple lab report PDFs",
	Long: `Process a set of laboratory report PDFs sequentially.

A document that fails to process becomes a failed entry in the summary;
the remaining documents are still processed.

Examples:
  swasthya batch reports/
  swasthya batch reports/ --recursive --format json --output results.json
  swasthya batch reports/ --output-dir extracted/ --db history.db
  swasthya batch a.pdf b.pdf --format xlsx --output results.xlsx`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// CLI flags override config file values.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) *batch.Config {
	batchConfig := &batch.Config{}

	batchConfig.Recursive = cfg.Batch.Recursive
	if cmd.Flags().Changed("recursive") {
		batchConfig.Recursive, _ = cmd.Flags().GetBool("recursive")
	}

	batchConfig.IncludePatterns = cfg.Batch.IncludePatterns
	if cmd.Flags().Changed("include") {
		batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	}

	batchConfig.ExcludePatterns = cfg.Batch.ExcludePatterns
	if cmd.Flags().Changed("exclude") {
		batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	}

	batchConfig.ContinueOnError = cfg.Batch.ContinueOnError
	if cmd.Flags().Changed("continue-on-error") {
		batchConfig.ContinueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}

	batchConfig.Format = cfg.Output.Format
	if cmd.Flags().Changed("format") {
		batchConfig.Format, _ = cmd.Flags().GetString("format")
	}

	batchConfig.OutputFile = cfg.Output.File
	if cmd.Flags().Changed("output") {
		batchConfig.OutputFile, _ = cmd.Flags().GetString("output")
	}

	batchConfig.OutputDir = cfg.Output.OutputDir
	if cmd.Flags().Changed("output-dir") {
		batchConfig.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}

	batchConfig.Pretty = cfg.Output.Pretty
	if cmd.Flags().Changed("pretty") {
		batchConfig.Pretty, _ = cmd.Flags().GetBool("pretty")
	}

	batchConfig.Quiet, _ = cmd.Flags().GetBool("quiet")

	return batchConfig
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	batchConfig := configToBatchConfig(cfg, cmd)

	pl, err := buildPipeline(cfg, cmd, nil)
	if err != nil {
		return err
	}

	summary, err := batch.ProcessBatch(context.Background(), pl, args, batchConfig)
	if err != nil {
		return err
	}

	if err := batch.SaveSummary(summary, batchConfig); err != nil {
		return err
	}
	if err := batch.SaveOutputDir(summary, batchConfig); err != nil {
		return err
	}

	dbPath := cfg.Batch.DatabasePath
	if cmd.Flags().Changed("db") {
		dbPath, _ = cmd.Flags().GetString("db")
	}
	if dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := db.SaveSummary(context.Background(), summary); err != nil {
			return fmt.Errorf("failed to record results: %w", err)
		}
		if !batchConfig.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Results recorded in %s\n", dbPath)
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolP("recursive", "r", false, "search directories recursively")
	batchCmd.Flags().StringSlice("include", nil, "glob patterns of files to include (default *.pdf)")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns of files to exclude")
	batchCmd.Flags().Bool("continue-on-error", true, "keep processing after a document fails")
	batchCmd.Flags().StringP("format", "f", "", "output format (text, json, csv, yaml, xlsx)")
	batchCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	batchCmd.Flags().String("output-dir", "", "directory for per-document results and summary")
	batchCmd.Flags().Bool("pretty", false, "pretty-print json output")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress status messages")
	batchCmd.Flags().String("db", "", "SQLite database to record results in")
	addExtractionFlags(batchCmd)
}
