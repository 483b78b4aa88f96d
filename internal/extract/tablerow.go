package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// cellSeparator joins table cells before pattern matching. The pipe cannot
// appear inside a numeric token, so it doubles as the field boundary the
// pattern keys on.
const cellSeparator = " | "

// rowPattern decomposes a joined table row into, in order: a name segment of
// letters/punctuation/spaces, a numeric result, an optional unit token, and a
// low-high reference range. The range separator is either a dash inside one
// cell ("12.0 - 18.0") or the cell boundary itself. Deliberately stricter
// than the multi-line scanner: table cells are assumed well-aligned, and any
// row that does not fit this shape is dropped.
var rowPattern = regexp.MustCompile(
	`([A-Za-z][A-Za-z.\s/:-]*?)\s*\|\s*([0-9.]+)(?:\s*\|\s*([A-Za-z%/]+))?\s*\|\s*([0-9.]+)\s*(?:-|\|)\s*([0-9.]+)`)

// ParseRow decomposes one structured table row (already split into cells by
// the document backend) into an extended field. The second return value is
// false when the row does not match the structured shape.
func ParseRow(cells []string) (TableField, bool) {
	// Blank cells would split the pattern across a spurious boundary.
	filled := make([]string, 0, len(cells))
	for _, cell := range cells {
		if trimmed := strings.TrimSpace(cell); trimmed != "" {
			filled = append(filled, trimmed)
		}
	}
	joined := strings.Join(filled, cellSeparator)
	m := rowPattern.FindStringSubmatch(joined)
	if m == nil {
		return TableField{}, false
	}

	result, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return TableField{}, false
	}
	low, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return TableField{}, false
	}
	high, err := strconv.ParseFloat(m[5], 64)
	if err != nil {
		return TableField{}, false
	}

	return TableField{
		TestName:  strings.TrimSpace(m[1]),
		Result:    result,
		RawResult: m[2],
		Unit:      m[3],
		RefLow:    low,
		RefHigh:   high,
	}, true
}
