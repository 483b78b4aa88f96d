package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Classification is the label assigned to a single report line.
type Classification int

const (
	// Noise marks boilerplate, separators, and anything else that can never
	// anchor or complete a field.
	Noise Classification = iota
	// CandidateName marks a line eligible to anchor a field.
	CandidateName
	// CandidateValue marks a pure numeric line eligible to be a result.
	CandidateValue
)

// String returns the string representation of the classification.
func (c Classification) String() string {
	switch c {
	case CandidateName:
		return "candidate_name"
	case CandidateValue:
		return "candidate_value"
	default:
		return "noise"
	}
}

// valuePattern matches a complete result token: digits and decimal points
// only. Integers, decimals, and zero-padded values ("00", "03") all match;
// signs, thousands separators, and attached units do not.
var valuePattern = regexp.MustCompile(`^[0-9.]+$`)

// separatorRunes are the characters a pure separator line is made of.
const separatorRunes = "-:/"

// Rules holds the tunable line-classification thresholds. These are
// empirically tuned for one report vendor's layout and are injected from
// configuration rather than hardcoded.
type Rules struct {
	// SkipKeywords mark boilerplate lines by case-insensitive containment.
	SkipKeywords []string
	// MethodMarkers mark method/annotation lines skipped during lookahead.
	MethodMarkers []string
	// MinNameLength is the minimum rune count for a candidate name.
	MinNameLength int
	// UppercaseRatio is the minimum fraction of uppercase letters among a
	// candidate name's letters.
	UppercaseRatio float64
}

// DefaultRules returns the rule set tuned for the observed report layout.
func DefaultRules() Rules {
	return Rules{
		SkipKeywords: []string{
			"TEST PARAMETER", "REFERENCE RANGE", "RESULT", "UNIT", "SAMPLE TYPE",
			"Page", "Report Status", "Collected On", "Reported On", "Final",
			"Method:", "Automated", "Patient Location", "Flowcytometry",
			"Lab ID", "UH ID", "Registered On", "Age/Gender", "Electrical Impedence",
			"LABORATORY TEST REPORT", "HAEMATOLOGY", "Ref. By", "Calculated",
			"Processed By", "End Of Report", "EDTA", "Pathologist", "whole blood",
			"TERMS & CONDITIONS", "Dr ",
			"COMPLETE BLOOD COUNT", "Male", "Female", "Years", "Name", "Mr.", "Mrs.", "Ms.",
			"Differential Leucocyte Count", "IP/OP No",
		},
		MethodMarkers:  []string{"Method:", "Automated", "Calculated"},
		MinNameLength:  3,
		UppercaseRatio: 0.5,
	}
}

// Classifier labels report lines according to a fixed rule set. It is
// immutable after construction and safe for concurrent use.
type Classifier struct {
	skipKeywords   []string // lowercased
	methodMarkers  []string
	minNameLength  int
	uppercaseRatio float64
}

// NewClassifier builds a classifier from the given rules. Zero-valued
// thresholds fall back to the defaults.
func NewClassifier(rules Rules) *Classifier {
	defaults := DefaultRules()
	if rules.SkipKeywords == nil {
		rules.SkipKeywords = defaults.SkipKeywords
	}
	if rules.MethodMarkers == nil {
		rules.MethodMarkers = defaults.MethodMarkers
	}
	if rules.MinNameLength <= 0 {
		rules.MinNameLength = defaults.MinNameLength
	}
	if rules.UppercaseRatio <= 0 {
		rules.UppercaseRatio = defaults.UppercaseRatio
	}

	lowered := make([]string, len(rules.SkipKeywords))
	for i, kw := range rules.SkipKeywords {
		lowered[i] = strings.ToLower(kw)
	}

	return &Classifier{
		skipKeywords:   lowered,
		methodMarkers:  rules.MethodMarkers,
		minNameLength:  rules.MinNameLength,
		uppercaseRatio: rules.UppercaseRatio,
	}
}

// Classify labels a single trimmed line. Noise takes precedence, then the
// pure-numeric value rule, then the name rules; anything else is noise for
// scanning purposes.
func (c *Classifier) Classify(line string) Classification {
	switch {
	case c.IsNoise(line):
		return Noise
	case c.IsCandidateValue(line):
		return CandidateValue
	case c.IsCandidateName(line):
		return CandidateName
	default:
		return Noise
	}
}

// IsNoise reports whether the line is boilerplate: empty or single-rune,
// a pure separator run, or containing a skip keyword.
func (c *Classifier) IsNoise(line string) bool {
	if utf8.RuneCountInString(line) <= 1 {
		return true
	}
	if isSeparatorRun(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, kw := range c.skipKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsCandidateValue reports whether the entire line is a numeric result token.
// This is deliberately independent of the noise rules: a short value such as
// "0" is still a valid result inside a lookahead window.
func (c *Classifier) IsCandidateValue(line string) bool {
	return valuePattern.MatchString(line)
}

// IsCandidateName reports whether the line looks like a test name: long
// enough, starting with an uppercase letter, not boilerplate, and with at
// least the configured fraction of its letters uppercase. The ratio is
// computed over letters only, so embedded units and punctuation do not count
// against a name.
func (c *Classifier) IsCandidateName(line string) bool {
	if utf8.RuneCountInString(line) < c.minNameLength {
		return false
	}
	first, _ := utf8.DecodeRuneInString(line)
	if !unicode.IsUpper(first) {
		return false
	}
	if c.IsNoise(line) {
		return false
	}

	letters, uppercase := 0, 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppercase++
			}
		}
	}
	if letters == 0 {
		return false
	}
	return float64(uppercase)/float64(letters) >= c.uppercaseRatio
}

// IsMethodLine reports whether the line is a method/annotation note that the
// scanner skips without ending a lookahead search.
func (c *Classifier) IsMethodLine(line string) bool {
	for _, marker := range c.methodMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func isSeparatorRun(line string) bool {
	for _, r := range line {
		if !strings.ContainsRune(separatorRunes, r) {
			return false
		}
	}
	return len(line) > 0
}
