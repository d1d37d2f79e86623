// SPDX-License-Identifier: Apache-2.0

package entity_test

import (
	"context"
	"strings"
	"sync"

	"github.com/resumener/resumener/internal/entity"
)

// stubLabeler returns fixed predictions, or err when set.
type stubLabeler struct {
	spans []entity.LabeledSpan
	err   error
}

func (l *stubLabeler) Label(_ context.Context, _ string) ([]entity.LabeledSpan, error) {
	return l.spans, l.err
}

func (l *stubLabeler) Name() string { return "stub" }

// echoLabeler labels every occurrence of each phrase in the text it is given.
type echoLabeler map[string]string

func (l echoLabeler) Label(_ context.Context, text string) ([]entity.LabeledSpan, error) {
	var spans []entity.LabeledSpan
	for phrase, label := range l {
		if i := strings.Index(text, phrase); i >= 0 {
			spans = append(spans, entity.LabeledSpan{Label: label, Start: i, End: i + len(phrase), Text: phrase})
		}
	}
	return spans, nil
}

func (l echoLabeler) Name() string { return "echo" }

// memorySource serves Document.Content as text for the "mem" format.
type memorySource struct{ err error }

func (s memorySource) CanHandle(doc entity.Document) bool { return doc.Format == "mem" }

func (s memorySource) Text(_ context.Context, doc entity.Document) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return string(doc.Content), nil
}

func (s memorySource) Name() string { return "mem" }

type recordingSink struct {
	mu      sync.Mutex
	results []*entity.Result
	err     error
}

func (s *recordingSink) Write(_ context.Context, r *entity.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, r)
	return nil
}

func memDoc(id, text string) entity.Document {
	return entity.Document{ID: id, Format: "mem", Content: []byte(text)}
}
