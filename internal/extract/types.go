// Package extract implements the field-extraction engine for laboratory test
// reports: line classification, the multi-line scanning state machine, the
// structured table-row parser, and result deduplication.
package extract

// Field is one reconstructed (test, result) pair. Result is kept as the
// original numeric-looking string so that leading zeros and formatting
// survive ("00" and "0" are different results). Unit and reference bounds are
// only present for fields recovered from structured table rows.
type Field struct {
	TestName string   `json:"test_name"`
	Result   string   `json:"result"`
	Unit     string   `json:"unit,omitempty"`
	RefLow   *float64 `json:"ref_low,omitempty"`
	RefHigh  *float64 `json:"ref_high,omitempty"`
}

// TableField is the extended field shape produced by the table-row parser.
type TableField struct {
	TestName  string
	Result    float64
	RawResult string
	Unit      string
	RefLow    float64
	RefHigh   float64
}

// Field converts a TableField to the output field shape. The raw result token
// is preserved so the dedup key matches fields from the multi-line scanner.
func (t TableField) Field() Field {
	low, high := t.RefLow, t.RefHigh
	return Field{
		TestName: t.TestName,
		Result:   t.RawResult,
		Unit:     t.Unit,
		RefLow:   &low,
		RefHigh:  &high,
	}
}
