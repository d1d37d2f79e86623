// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/resumener/resumener/internal/entity"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PlainTextSource reads documents that are already text, such as the
// markdown exported by a document converter or a .txt dump.
type PlainTextSource struct{}

// NewPlainTextSource creates a new PlainTextSource.
func NewPlainTextSource() *PlainTextSource {
	return &PlainTextSource{}
}

func (s *PlainTextSource) Name() string {
	return "text"
}

// CanHandle returns true for text and markdown format hints or extensions,
// or for in-memory content that is valid UTF-8 and not a PDF.
func (s *PlainTextSource) CanHandle(doc entity.Document) bool {
	switch formatOf(doc) {
	case "txt", "text", "md", "markdown":
		return true
	case "":
		return doc.Content != nil && utf8.Valid(doc.Content) && !isPDF(doc.Content)
	}
	return false
}

func (s *PlainTextSource) Text(_ context.Context, doc entity.Document) (string, error) {
	b, err := doc.Bytes()
	if err != nil {
		return "", err
	}
	b = bytes.TrimPrefix(b, utf8BOM)
	return strings.ToValidUTF8(string(b), "�"), nil
}

// formatOf returns the lower-cased format hint, falling back to the path
// extension.
func formatOf(doc entity.Document) string {
	if doc.Format != "" {
		return strings.ToLower(doc.Format)
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(doc.Path), "."))
}
