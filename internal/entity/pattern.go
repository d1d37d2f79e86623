// SPDX-License-Identifier: Apache-2.0

package entity

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// capitalizedWords matches one or more capitalized words on a single line.
const capitalizedWords = `\p{Lu}\p{Ll}*(?:[ \t]+\p{Lu}\p{Ll}*)*`

// DefaultNameLabels are the label tokens that introduce a name field.
var DefaultNameLabels = []string{`Full\s+Name`, `Full\s+name`, `Name`, `Tên`}

var (
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	headingPattern = regexp.MustCompile(`(?m)^##[ \t]+(` + capitalizedWords + `)[ \t]*\r?$`)
)

// Substrings that mark an email-shaped match as a profile link or repo URL.
var emailRejectMarkers = []string{"http://", "https://", "github", "linkedin"}

// Words that mean a "name" capture is really another field's label.
var nameRejectWords = []string{"email", "phone", "address"}

// nameRule pairs a name pattern with the static confidence of its matches.
// Rules are evaluated in order; on duplicate names the earlier rule wins.
type nameRule struct {
	name       string
	pattern    *regexp.Regexp
	confidence float64
}

// PatternExtractor finds names and emails with fixed regular expressions.
// It holds no per-call state and is safe for concurrent use.
type PatternExtractor struct {
	nameRules []nameRule
}

// NewPatternExtractor builds the label and heading name rules. extraLabels are
// regular expression fragments for additional name labels (e.g. "Họ và tên");
// fragments that do not compile are skipped.
func NewPatternExtractor(extraLabels []string, logger *zap.Logger) *PatternExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	labels := append([]string{}, DefaultNameLabels...)
	for _, l := range extraLabels {
		if _, err := regexp.Compile(`(?:` + l + `)`); err != nil {
			logger.Warn("skipping invalid name label pattern", zap.String("label", l), zap.Error(err))
			continue
		}
		labels = append(labels, l)
	}

	label, err := compileLabelRule(labels)
	if err != nil {
		// Individually valid fragments can still clash once joined.
		logger.Warn("falling back to default name labels", zap.Error(err))
		label = regexp.MustCompile(labelRuleSource(DefaultNameLabels))
	}

	return &PatternExtractor{
		nameRules: []nameRule{
			{name: "label", pattern: label, confidence: 0.9},
			{name: "heading", pattern: headingPattern, confidence: 0.8},
		},
	}
}

func labelRuleSource(labels []string) string {
	return `\b(?:` + strings.Join(labels, "|") + `)\s*:?\s*(` + capitalizedWords + `)`
}

func compileLabelRule(labels []string) (*regexp.Regexp, error) {
	return regexp.Compile(labelRuleSource(labels))
}

// Extract runs both the email and the name rules over text.
func (p *PatternExtractor) Extract(text string) map[Type][]Span {
	return map[Type][]Span{
		Name:  p.Names(text),
		Email: p.Emails(text),
	}
}

// Emails returns email-shaped substrings that are not profile or repository
// links. Duplicate texts keep their first occurrence.
func (p *PatternExtractor) Emails(text string) []Span {
	seen := make(map[string]bool)
	var spans []Span
	for _, loc := range emailPattern.FindAllStringIndex(text, -1) {
		email := text[loc[0]:loc[1]]
		if !plausibleEmail(email) || seen[email] {
			continue
		}
		seen[email] = true
		spans = append(spans, Span{
			Text:   email,
			Start:  loc[0],
			End:    loc[1],
			Source: SourcePattern,
			Rule:   "email",
		})
	}
	return spans
}

// Names returns label-prefixed and heading-style names, deduplicated
// case-insensitively across rules.
func (p *PatternExtractor) Names(text string) []Span {
	seen := make(map[string]bool)
	var spans []Span
	for _, rule := range p.nameRules {
		for _, m := range rule.pattern.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[2], m[3]
			if start < 0 {
				continue
			}
			end, ok := wholeWords(text, start, end)
			if !ok {
				continue
			}
			name := text[start:end]
			key := strings.ToLower(name)
			if !plausibleName(name) || seen[key] {
				continue
			}
			seen[key] = true
			confidence := rule.confidence
			spans = append(spans, Span{
				Text:       name,
				Start:      start,
				End:        end,
				Source:     SourcePattern,
				Confidence: &confidence,
				Rule:       rule.name,
			})
		}
	}
	return spans
}

// wholeWords shrinks a capture that stops inside a word, as in "John SMITH"
// where only "S" fits the pattern, back to its last complete word.
func wholeWords(text string, start, end int) (int, bool) {
	if end >= len(text) {
		return end, true
	}
	if r, _ := utf8.DecodeRuneInString(text[end:]); !unicode.IsLetter(r) && !unicode.IsMark(r) {
		return end, true
	}
	cut := strings.LastIndexAny(text[start:end], " \t")
	if cut < 0 {
		return 0, false
	}
	end = start + len(strings.TrimRight(text[start:start+cut], " \t"))
	return end, end > start
}

func plausibleEmail(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range emailRejectMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return strings.Count(s, "@") == 1 && !strings.Contains(s, ".git")
}

func plausibleName(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 3 || n > 50 {
		return false
	}
	lower := strings.ToLower(s)
	if strings.Contains(s, "@") || strings.Contains(lower, "http") {
		return false
	}
	for _, w := range nameRejectWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}
