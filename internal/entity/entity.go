// SPDX-License-Identifier: Apache-2.0

package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// Type is the closed set of entity categories the extractor recognizes.
type Type int

const (
	Name  Type = iota // Person name
	Email             // Email address
)

var typeNames = [...]string{
	Name:  "NAME",
	Email: "EMAIL",
}

// Types returns every recognized entity type in output order.
func Types() []Type {
	return []Type{Name, Email}
}

// ParseType maps a model label such as "NAME" to its Type.
func ParseType(label string) (Type, bool) {
	for i, n := range typeNames {
		if n == label {
			return Type(i), true
		}
	}
	return 0, false
}

func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseType(s)
	if !ok {
		return errors.Newf("unknown entity type: %q", s)
	}
	*t = parsed
	return nil
}

// Source records which extraction strategy produced a span.
type Source string

const (
	SourcePattern Source = "pattern"
	SourceModel   Source = "model"
)

// Span is a candidate entity mention. Start and End are byte offsets into the
// source text such that text[Start:End] == Text.
type Span struct {
	Text   string `json:"text" yaml:"text"`
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
	Source Source `json:"source" yaml:"source"`
	// Confidence is only set for pattern-sourced names.
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Rule       string   `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// Key is the normalized form used for deduplication.
func (s Span) Key() string {
	return strings.ToLower(s.Text)
}

// ValidIn reports whether the span's offsets address its text inside source.
func (s Span) ValidIn(source string) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= len(source) && source[s.Start:s.End] == s.Text
}

// Result is the per-document output of the pipeline.
type Result struct {
	DocumentID string   `json:"file" yaml:"file"`
	Names      []string `json:"name" yaml:"name"`
	Emails     []string `json:"email" yaml:"email"`
	Details    Details  `json:"details" yaml:"details"`
}

// Details carries the merged spans behind Result.Names and Result.Emails.
type Details struct {
	Names  []Span `json:"names" yaml:"names"`
	Emails []Span `json:"emails" yaml:"emails"`
}

// Document describes the raw input to the pipeline.
type Document struct {
	// Content is the raw document content (PDF bytes, plain text, ...).
	// When nil, Path is read instead.
	Content []byte
	Path    string
	Format  string
	ID      string
}

// Bytes returns the document content, reading Path if Content is unset.
func (d Document) Bytes() ([]byte, error) {
	if d.Content != nil || d.Path == "" {
		return d.Content, nil
	}
	b, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", d.Path)
	}
	return b, nil
}

// TextSource turns a raw document into the single text blob the extractors scan.
type TextSource interface {
	CanHandle(doc Document) bool
	Text(ctx context.Context, doc Document) (string, error)
	Name() string
}

// Sink receives each assembled Result, e.g. to persist it.
type Sink interface {
	Write(ctx context.Context, result *Result) error
}

func newResult(docID string, merged map[Type][]Span) *Result {
	names := merged[Name]
	emails := merged[Email]
	return &Result{
		DocumentID: docID,
		Names:      spanTexts(names),
		Emails:     spanTexts(emails),
		Details: Details{
			Names:  nonNil(names),
			Emails: nonNil(emails),
		},
	}
}

func spanTexts(spans []Span) []string {
	texts := make([]string, len(spans))
	for i, s := range spans {
		texts[i] = s.Text
	}
	return texts
}

func nonNil(spans []Span) []Span {
	if spans == nil {
		return []Span{}
	}
	return spans
}
