package extract

import (
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultLookahead is the number of lines searched for a result after a
// candidate-name line.
const DefaultLookahead = 6

// Scanner reconstructs (test, result) pairs from free-running report text
// where a test's name, unit, reference range, and result sit on separate,
// non-aligned lines.
//
// The scan is a small state machine: advance line by line looking for a
// candidate name; once one is found, search a bounded window of following
// lines for the first pure-numeric value; on a match emit the pair and resume
// scanning just after the value line, so a consumed result can never anchor
// or complete another pair. A name with no value in its window is dropped and
// scanning resumes on the line after the name.
type Scanner struct {
	classifier *Classifier
	lookahead  int
}

// NewScanner builds a scanner around the given classifier. A non-positive
// lookahead falls back to DefaultLookahead.
func NewScanner(classifier *Classifier, lookahead int) *Scanner {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	return &Scanner{classifier: classifier, lookahead: lookahead}
}

// Scan extracts fields from a page's text. Input is NFC-normalized and split
// on line breaks; empty lines are retained so lookahead indices stay stable.
func (s *Scanner) Scan(text string) []Field {
	raw := strings.Split(norm.NFC.String(text), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}

	fields := make([]Field, 0, 8)

	i := 0
	for i < len(lines) {
		line := lines[i]
		if line == "" || s.classifier.IsNoise(line) {
			i++
			continue
		}

		if s.classifier.IsCandidateName(line) {
			if j, value, ok := s.findResult(lines, i); ok {
				name := CleanName(line)
				fields = append(fields, Field{TestName: name, Result: value})
				slog.Debug("extracted field", "test", name, "result", value, "line", j)
				// Resume after the consumed value line.
				i = j
			}
		}
		i++
	}

	return fields
}

// findResult searches the lookahead window after the name at nameIdx for the
// first candidate value. Empty lines and method/annotation lines are skipped
// without ending the search; any other non-value line is ignored as well.
// The window is never retried.
func (s *Scanner) findResult(lines []string, nameIdx int) (int, string, bool) {
	for j := nameIdx + 1; j <= nameIdx+s.lookahead && j < len(lines); j++ {
		line := lines[j]
		if line == "" {
			continue
		}
		if s.classifier.IsMethodLine(line) {
			continue
		}
		if s.classifier.IsCandidateValue(line) {
			return j, line, true
		}
	}
	return 0, "", false
}

// CleanName standardizes a test name: internal whitespace runs collapse to
// single spaces and a single trailing colon is stripped.
func CleanName(name string) string {
	cleaned := strings.Join(strings.Fields(name), " ")
	cleaned = strings.TrimSuffix(cleaned, ":")
	return strings.TrimSpace(cleaned)
}
