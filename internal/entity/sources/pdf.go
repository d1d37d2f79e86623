// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"bytes"
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ledongthuc/pdf"

	"github.com/resumener/resumener/internal/entity"
)

var pdfMagic = []byte("%PDF-")

// PDFSource extracts the plain text of every page of a PDF, joined by
// newlines in page order.
type PDFSource struct{}

// NewPDFSource creates a new PDFSource.
func NewPDFSource() *PDFSource {
	return &PDFSource{}
}

func (s *PDFSource) Name() string {
	return "pdf"
}

func (s *PDFSource) CanHandle(doc entity.Document) bool {
	if formatOf(doc) == "pdf" {
		return true
	}
	return isPDF(doc.Content)
}

func (s *PDFSource) Text(ctx context.Context, doc entity.Document) (text string, err error) {
	content, err := doc.Bytes()
	if err != nil {
		return "", err
	}

	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("malformed PDF %q: %v", doc.ID, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", errors.Wrap(err, "failed to open PDF")
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read page %d", i)
		}
		if pageText != "" {
			b.WriteString(pageText)
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func isPDF(content []byte) bool {
	return bytes.HasPrefix(content, pdfMagic)
}
