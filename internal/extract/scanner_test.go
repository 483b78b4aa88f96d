package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	return NewScanner(NewClassifier(DefaultRules()), DefaultLookahead)
}

func TestScanner_MultilineFormat(t *testing.T) {
	s := newTestScanner(t)

	text := strings.Join([]string{
		"HAEMOGLOBIN",
		"g/dL",
		"12.0-18.0",
		"Method: Automated",
		"13.2",
	}, "\n")

	fields := s.Scan(text)
	require.Len(t, fields, 1)
	assert.Equal(t, "HAEMOGLOBIN", fields[0].TestName)
	assert.Equal(t, "13.2", fields[0].Result)
}

func TestScanner_LookaheadBoundary(t *testing.T) {
	s := newTestScanner(t)

	// Value exactly six lines after the name is matched.
	within := strings.Join([]string{
		"HAEMOGLOBIN",
		"g/dL", "", "", "", "",
		"13.2",
	}, "\n")
	fields := s.Scan(within)
	require.Len(t, fields, 1)
	assert.Equal(t, "13.2", fields[0].Result)

	// Seven lines after the name is out of the window; the name is dropped.
	beyond := strings.Join([]string{
		"HAEMOGLOBIN",
		"g/dL", "", "", "", "", "",
		"13.2",
	}, "\n")
	assert.Empty(t, s.Scan(beyond))
}

func TestScanner_ConsecutiveNames(t *testing.T) {
	s := newTestScanner(t)

	// The first name's window holds no value, so it is dropped without a
	// retry; the second name pairs with the result on its own.
	text := strings.Join([]string{
		"TOTAL RBC COUNT",
		"g/dL", "g/dL", "g/dL", "g/dL", "g/dL", "g/dL",
		"PLATELET COUNT",
		"2.5",
	}, "\n")

	fields := s.Scan(text)
	require.Len(t, fields, 1)
	assert.Equal(t, "PLATELET COUNT", fields[0].TestName)
	assert.Equal(t, "2.5", fields[0].Result)
}

func TestScanner_ValueLineNotReused(t *testing.T) {
	s := newTestScanner(t)

	// Once 13.2 is consumed by HAEMOGLOBIN, scanning resumes after it, so
	// PCV pairs with the next value rather than the consumed one.
	text := strings.Join([]string{
		"HAEMOGLOBIN",
		"13.2",
		"PCV",
		"38.90",
	}, "\n")

	fields := s.Scan(text)
	require.Len(t, fields, 2)
	assert.Equal(t, Field{TestName: "HAEMOGLOBIN", Result: "13.2"}, fields[0])
	assert.Equal(t, Field{TestName: "PCV", Result: "38.90"}, fields[1])
}

func TestScanner_SkipKeywordNeverAnchors(t *testing.T) {
	s := newTestScanner(t)

	text := strings.Join([]string{
		"Page 1 of 3",
		"13.2",
	}, "\n")

	assert.Empty(t, s.Scan(text))
}

func TestScanner_BoilerplateBetweenNameAndValue(t *testing.T) {
	s := newTestScanner(t)

	text := strings.Join([]string{
		"TOTAL WBC COUNT",
		"cells/cumm",
		"4000 - 11000",
		"Electrical Impedence",
		"9800",
	}, "\n")

	fields := s.Scan(text)
	require.Len(t, fields, 1)
	assert.Equal(t, "TOTAL WBC COUNT", fields[0].TestName)
	assert.Equal(t, "9800", fields[0].Result)
}

func TestScanner_ZeroPaddedResults(t *testing.T) {
	s := newTestScanner(t)

	text := strings.Join([]string{
		"BASOPHILS",
		"%",
		"00",
		"EOSINOPHILS",
		"%",
		"03",
	}, "\n")

	fields := s.Scan(text)
	require.Len(t, fields, 2)
	assert.Equal(t, "00", fields[0].Result)
	assert.Equal(t, "03", fields[1].Result)
}

func TestScanner_EmptyText(t *testing.T) {
	s := newTestScanner(t)

	assert.Empty(t, s.Scan(""))
	assert.Empty(t, s.Scan("\n\n\n"))
	assert.Empty(t, s.Scan("   \n\t\n"))
}

func TestScanner_UntrimmedLines(t *testing.T) {
	s := newTestScanner(t)

	fields := s.Scan("  HAEMOGLOBIN:  \r\n  13.2  ")
	require.Len(t, fields, 1)
	assert.Equal(t, "HAEMOGLOBIN", fields[0].TestName)
	assert.Equal(t, "13.2", fields[0].Result)
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HAEMOGLOBIN", "HAEMOGLOBIN"},
		{"HAEMOGLOBIN:", "HAEMOGLOBIN"},
		{"TOTAL   RBC\tCOUNT", "TOTAL RBC COUNT"},
		{"  PCV  ", "PCV"},
		{"MCHC::", "MCHC:"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanName(tt.in), "input: %q", tt.in)
	}
}
