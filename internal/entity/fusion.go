// SPDX-License-Identifier: Apache-2.0

package entity

// Merge reconciles pattern and model candidates of one entity type. Spans are
// keyed by lower-cased text; pattern spans are inserted first so they win any
// conflict, then model spans are added only for unseen keys. The result keeps
// insertion order. Spans with different text are never merged, even when
// their offsets overlap.
func Merge(pattern, model []Span) []Span {
	seen := make(map[string]bool, len(pattern)+len(model))
	merged := make([]Span, 0, len(pattern)+len(model))

	add := func(spans []Span) {
		for _, s := range spans {
			key := s.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, s)
		}
	}

	add(pattern)
	add(model)
	return merged
}
