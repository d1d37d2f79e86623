// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/resumener/resumener/internal/entity"
)

var (
	mdLink    = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdBullet  = regexp.MustCompile(`^[ \t]*(?:[-*+]|\d+\.)[ \t]+`)
	mdQuote   = regexp.MustCompile(`^[ \t]*>[ \t]?`)
	mdHeading = regexp.MustCompile(`^#+[ \t]*`)
)

// emphasis is a paired inline marker. Underscore markers only count on word
// boundaries, so "john__doe@x.com" keeps its underscores.
type emphasis struct {
	pattern   *regexp.Regexp
	intraword bool
}

var mdEmphasis = []emphasis{
	{pattern: regexp.MustCompile("`([^`\n]+)`"), intraword: true},
	{pattern: regexp.MustCompile(`\*\*([^*\n]+)\*\*`), intraword: true},
	{pattern: regexp.MustCompile(`__([^_\n]+)__`)},
	{pattern: regexp.MustCompile(`\*([^*\s](?:[^*\n]*[^*\s])?)\*`), intraword: true},
	{pattern: regexp.MustCompile(`_([^_\s](?:[^_\n]*[^_\s])?)_`)},
}

// MarkdownSource reads markdown résumés, such as the output of a PDF to
// markdown converter, and strips inline markup so that "**Name:** Jane" reads
// as "Name: Jane". Heading markers are kept; their text is cleaned too.
type MarkdownSource struct{}

// NewMarkdownSource creates a new MarkdownSource.
func NewMarkdownSource() *MarkdownSource {
	return &MarkdownSource{}
}

func (s *MarkdownSource) Name() string {
	return "markdown"
}

// CanHandle returns true for the "markdown" or "md" format hints, or for
// unhinted content that starts with a heading or uses bold markers.
func (s *MarkdownSource) CanHandle(doc entity.Document) bool {
	switch formatOf(doc) {
	case "md", "markdown":
		return true
	case "":
		if !utf8.Valid(doc.Content) {
			return false
		}
		content := strings.TrimSpace(string(doc.Content))
		return strings.HasPrefix(content, "#") || strings.Contains(content, "\n#") || strings.Contains(content, "**")
	}
	return false
}

func (s *MarkdownSource) Text(_ context.Context, doc entity.Document) (string, error) {
	b, err := doc.Bytes()
	if err != nil {
		return "", err
	}
	text := strings.TrimPrefix(strings.ToValidUTF8(string(b), "\uFFFD"), "\uFEFF")

	lines := strings.Split(text, "\n")
	inFence := false
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}
		if marker := mdHeading.FindString(line); marker != "" {
			out = append(out, marker+stripInline(line[len(marker):]))
			continue
		}
		line = mdQuote.ReplaceAllString(line, "")
		line = mdBullet.ReplaceAllString(line, "")
		out = append(out, stripInline(line))
	}
	return strings.Join(out, "\n"), nil
}

// stripInline replaces links by their text and unwraps emphasis pairs.
func stripInline(line string) string {
	line = mdLink.ReplaceAllString(line, "$1")
	for _, e := range mdEmphasis {
		line = unwrap(line, e)
	}
	return line
}

func unwrap(line string, e emphasis) string {
	var b strings.Builder
	last := 0
	for _, m := range e.pattern.FindAllStringSubmatchIndex(line, -1) {
		if !e.intraword && (wordRuneBefore(line, m[0]) || wordRuneAt(line, m[1])) {
			continue
		}
		b.WriteString(line[last:m[0]])
		b.WriteString(line[m[2]:m[3]])
		last = m[1]
	}
	if last == 0 {
		return line
	}
	b.WriteString(line[last:])
	return b.String()
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
