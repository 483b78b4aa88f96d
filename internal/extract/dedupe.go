package extract

import "strings"

type dedupKey struct {
	name   string
	result string
}

// Dedupe removes repeated (name, result) pairs, keeping the first occurrence
// and preserving first-seen order. The key is the lowercased test name plus
// the raw result string, so "00" and "0" stay distinct results. The input
// slice is not mutated.
func Dedupe(fields []Field) []Field {
	seen := make(map[dedupKey]struct{}, len(fields))
	unique := make([]Field, 0, len(fields))

	for _, f := range fields {
		key := dedupKey{name: strings.ToLower(f.TestName), result: f.Result}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, f)
	}

	return unique
}
