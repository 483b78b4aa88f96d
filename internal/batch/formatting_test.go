package batch

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/niksi-nova/swasthya-ai/internal/extract"
	"github.com/niksi-nova/swasthya-ai/internal/pipeline"
)

func sampleSummary() *pipeline.BatchSummary {
	low, high := 12.0, 18.0
	return pipeline.NewBatchSummary([]*pipeline.ExtractionResult{
		pipeline.NewResult("a.pdf", []extract.Field{
			{TestName: "HAEMOGLOBIN", Result: "13.2", Unit: "g/dL", RefLow: &low, RefHigh: &high},
			{TestName: "PCV", Result: "38.90"},
		}, nil),
		pipeline.NewFailedResult("b.pdf", errors.New("invalid PDF")),
	})
}

func TestFormatSummary_JSON(t *testing.T) {
	out, err := FormatSummary(sampleSummary(), "json", true)
	require.NoError(t, err)

	var decoded pipeline.BatchSummary
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 2, decoded.Processed)
	assert.Equal(t, 1, decoded.Successful)
	assert.Equal(t, 1, decoded.Failed)
}

func TestFormatSummary_YAML(t *testing.T) {
	out, err := FormatSummary(sampleSummary(), "yaml", false)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "processed")
}

func TestFormatSummary_CSV(t *testing.T) {
	out, err := FormatSummary(sampleSummary(), "csv", false)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)

	// Header + two fields from the successful document.
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader(), records[0])
	assert.Equal(t, []string{"a.pdf", "HAEMOGLOBIN", "13.2", "g/dL", "12", "18"}, records[1])
	assert.Equal(t, []string{"a.pdf", "PCV", "38.90", "", "", ""}, records[2])
}

func TestFormatSummary_Text(t *testing.T) {
	out, err := FormatSummary(sampleSummary(), "text", false)
	require.NoError(t, err)

	assert.Contains(t, out, "# a.pdf")
	assert.Contains(t, out, "HAEMOGLOBIN")
	assert.Contains(t, out, "[12 - 18]")
	assert.Contains(t, out, "FAILED: invalid PDF")
	assert.Contains(t, out, "Processed: 2  Successful: 1  Failed: 1")
}

func TestFormatResult_JSON(t *testing.T) {
	result := pipeline.NewResult("a.pdf", []extract.Field{{TestName: "PCV", Result: "38.90"}}, nil)

	out, err := FormatResult(result, "json", false)
	require.NoError(t, err)

	var decoded pipeline.ExtractionResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.True(t, decoded.Success)
	assert.Len(t, decoded.Fields, 1)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteXLSX(sampleSummary(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)

	// Header plus the successful document's two fields; failures are skipped.
	require.Len(t, rows, 3)
	assert.Equal(t, "Test Name", rows[0][1])
	assert.Equal(t, "HAEMOGLOBIN", rows[1][1])
}

func TestSaveSummary_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	config := &Config{Format: "json", OutputFile: path, Quiet: true}

	require.NoError(t, SaveSummary(sampleSummary(), config))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "HAEMOGLOBIN")
}

func TestSaveSummary_XLSXRequiresFile(t *testing.T) {
	err := SaveSummary(sampleSummary(), &Config{Format: "xlsx", Quiet: true})
	require.Error(t, err)
}

func TestSaveOutputDir(t *testing.T) {
	dir := t.TempDir()
	config := &Config{Format: "json", OutputDir: dir, Pretty: true, Quiet: true}

	require.NoError(t, SaveOutputDir(sampleSummary(), config))

	assert.FileExists(t, filepath.Join(dir, "a_extracted.json"))
	assert.FileExists(t, filepath.Join(dir, "b_extracted.json"))
	assert.FileExists(t, filepath.Join(dir, summaryFileName))

	data, err := os.ReadFile(filepath.Join(dir, summaryFileName))
	require.NoError(t, err)

	var summary pipeline.BatchSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 2, summary.Processed)
}

func TestDocumentFileName(t *testing.T) {
	assert.Equal(t, "report_extracted.json", documentFileName("/data/report.pdf", "json"))
	assert.Equal(t, "report_extracted.txt", documentFileName("report.pdf", "text"))
	assert.Equal(t, "scan_extracted.csv", documentFileName("in/scan.PDF", "csv"))
}
