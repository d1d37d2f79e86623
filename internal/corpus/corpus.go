// SPDX-License-Identifier: Apache-2.0

// Package corpus reads annotated résumé examples and turns them into the
// artifacts the extractor consumes: the merged training file and the
// gazetteer model.
//
// Annotation offsets are character (rune) offsets, as written by the
// annotation tool; they are converted to byte offsets only when a model is
// built.
package corpus

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Annotation is one labeled span of an Example, encoded as [start, end, label].
type Annotation struct {
	Start int
	End   int
	Label string
}

func (a Annotation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{a.Start, a.End, a.Label})
}

func (a *Annotation) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "annotation must be [start, end, label]")
	}
	if len(raw) != 3 {
		return errors.Newf("annotation must have 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &a.Start); err != nil {
		return errors.Wrap(err, "annotation start")
	}
	if err := json.Unmarshal(raw[1], &a.End); err != nil {
		return errors.Wrap(err, "annotation end")
	}
	if err := json.Unmarshal(raw[2], &a.Label); err != nil {
		return errors.Wrap(err, "annotation label")
	}
	return nil
}

// Example is an annotated text, encoded as [text, {"entities": [...]}].
type Example struct {
	Text     string
	Entities []Annotation
}

type exampleAnnotations struct {
	Entities []Annotation `json:"entities"`
}

func (e Example) MarshalJSON() ([]byte, error) {
	entities := e.Entities
	if entities == nil {
		entities = []Annotation{}
	}
	return json.Marshal([]any{e.Text, exampleAnnotations{Entities: entities}})
}

func (e *Example) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "example must be [text, annotations]")
	}
	if len(raw) != 2 {
		return errors.Newf("example must have 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.Text); err != nil {
		return errors.Wrap(err, "example text")
	}
	var ann exampleAnnotations
	if err := json.Unmarshal(raw[1], &ann); err != nil {
		return errors.Wrap(err, "example annotations")
	}
	e.Entities = ann.Entities
	return nil
}

// Labels returns the distinct labels used across examples, in first-seen order.
func Labels(examples []Example) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, ex := range examples {
		for _, a := range ex.Entities {
			if !seen[a.Label] {
				seen[a.Label] = true
				labels = append(labels, a.Label)
			}
		}
	}
	return labels
}

// Validate keeps the examples that can be trained on. An example is skipped
// when its trimmed text has fewer than 3 characters; a span is skipped when its
// offsets fall outside the text or its label is not in labels. Examples
// without any remaining span are dropped without counting as skipped.
// When labels is empty, every label present in examples is accepted.
func Validate(examples []Example, labels []string) (kept []Example, skipped int) {
	if len(labels) == 0 {
		labels = Labels(examples)
	}
	registered := make(map[string]bool, len(labels))
	for _, l := range labels {
		registered[l] = true
	}

	for _, ex := range examples {
		if utf8.RuneCountInString(strings.TrimSpace(ex.Text)) < 3 {
			skipped++
			continue
		}
		if len(ex.Entities) == 0 {
			continue
		}

		n := utf8.RuneCountInString(ex.Text)
		var valid []Annotation
		for _, a := range ex.Entities {
			if a.Start < 0 || a.Start >= a.End || a.End > n || !registered[a.Label] {
				skipped++
				continue
			}
			valid = append(valid, a)
		}
		if len(valid) > 0 {
			kept = append(kept, Example{Text: ex.Text, Entities: valid})
		}
	}
	return kept, skipped
}
