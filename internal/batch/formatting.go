package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/niksi-nova/swasthya-ai/internal/pipeline"
)

// FormatSummary formats a batch summary in the specified format.
func FormatSummary(summary *pipeline.BatchSummary, format string, pretty bool) (string, error) {
	switch format {
	case "json":
		return formatJSON(summary, pretty)
	case "csv":
		return formatCSV(summary)
	case "yaml":
		return formatYAML(summary)
	default: // text
		return formatText(summary), nil
	}
}

// FormatResult formats a single document result.
func FormatResult(result *pipeline.ExtractionResult, format string, pretty bool) (string, error) {
	switch format {
	case "json":
		return marshalJSON(result, pretty)
	case "csv":
		return formatResultCSV(result)
	case "yaml":
		out, err := yaml.Marshal(result)
		return string(out), err
	default:
		return formatResultText(result), nil
	}
}

func formatJSON(summary *pipeline.BatchSummary, pretty bool) (string, error) {
	return marshalJSON(summary, pretty)
}

func marshalJSON(v any, pretty bool) (string, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	return string(data), err
}

func formatYAML(summary *pipeline.BatchSummary) (string, error) {
	out, err := yaml.Marshal(summary)
	return string(out), err
}

// formatCSV emits one row per extracted field across all documents.
func formatCSV(summary *pipeline.BatchSummary) (string, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)

	if err := writer.Write(csvHeader()); err != nil {
		return "", err
	}
	for _, doc := range summary.Documents {
		for _, row := range csvRows(doc) {
			if err := writer.Write(row); err != nil {
				return "", err
			}
		}
	}

	writer.Flush()
	return output.String(), writer.Error()
}

func formatResultCSV(result *pipeline.ExtractionResult) (string, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)

	if err := writer.Write(csvHeader()); err != nil {
		return "", err
	}
	for _, row := range csvRows(result) {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	return output.String(), writer.Error()
}

func csvHeader() []string {
	return []string{"source", "test_name", "result", "unit", "ref_low", "ref_high"}
}

func csvRows(doc *pipeline.ExtractionResult) [][]string {
	rows := make([][]string, 0, len(doc.Fields))
	for _, field := range doc.Fields {
		low, high := "", ""
		if field.RefLow != nil {
			low = fmt.Sprintf("%g", *field.RefLow)
		}
		if field.RefHigh != nil {
			high = fmt.Sprintf("%g", *field.RefHigh)
		}
		rows = append(rows, []string{doc.Source, field.TestName, field.Result, field.Unit, low, high})
	}
	return rows
}

// formatText renders a human-readable batch report.
func formatText(summary *pipeline.BatchSummary) string {
	var output strings.Builder

	for i, doc := range summary.Documents {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(formatResultText(doc))
	}

	output.WriteString(fmt.Sprintf("\nProcessed: %d  Successful: %d  Failed: %d  Fields: %d\n",
		summary.Processed, summary.Successful, summary.Failed, summary.TotalFields))
	return output.String()
}

func formatResultText(doc *pipeline.ExtractionResult) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("# %s\n", doc.Source))
	if !doc.Success {
		output.WriteString(fmt.Sprintf("  FAILED: %s\n", doc.Error))
		return output.String()
	}

	for _, field := range doc.Fields {
		output.WriteString(fmt.Sprintf("  %-40s %s", field.TestName, field.Result))
		if field.Unit != "" {
			output.WriteString(" " + field.Unit)
		}
		if field.RefLow != nil && field.RefHigh != nil {
			output.WriteString(fmt.Sprintf("  [%g - %g]", *field.RefLow, *field.RefHigh))
		}
		output.WriteString("\n")
	}
	return output.String()
}
