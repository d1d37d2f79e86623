// SPDX-License-Identifier: Apache-2.0

package labelers

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"

	"github.com/resumener/resumener/internal/entity"
)

// ModelFileName is the file a model directory must contain.
const ModelFileName = "model.yaml"

// GazetteerModel is the on-disk form of a gazetteer: every annotated surface
// form with its label.
type GazetteerModel struct {
	Version int              `yaml:"version"`
	Entries []GazetteerEntry `yaml:"entries"`
}

type GazetteerEntry struct {
	Label string `yaml:"label"`
	Text  string `yaml:"text"`
}

// Gazetteer labels every known surface form found on word boundaries,
// ignoring case. Overlapping hits resolve leftmost-longest.
type Gazetteer struct {
	trie    *ahocorasick.Trie
	entries []GazetteerEntry
	path    string
}

// LoadGazetteer reads a model from path, which is either a model file or a
// directory containing model.yaml. A missing or empty model is reported as
// entity.ErrModelNotLoaded.
func LoadGazetteer(path string) (*Gazetteer, error) {
	file := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		file = filepath.Join(path, ModelFileName)
	}

	content, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.WithHintf(
				errors.Wrapf(entity.ErrModelNotLoaded, "no model at %s", file),
				"build one first with: resumener model build <train_data.json> %s", filepath.Dir(file))
		}
		return nil, errors.Wrapf(err, "failed to read model %s", file)
	}

	var model GazetteerModel
	if err := yaml.Unmarshal(content, &model); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal model %s", file)
	}

	g, err := NewGazetteer(model)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", file)
	}
	g.path = file
	return g, nil
}

// NewGazetteer compiles model into a matcher. Entries are deduplicated
// case-insensitively; the first label seen for a surface form is kept.
func NewGazetteer(model GazetteerModel) (*Gazetteer, error) {
	seen := make(map[string]bool, len(model.Entries))
	var entries []GazetteerEntry
	var patterns []string
	for _, e := range model.Entries {
		text := strings.TrimSpace(e.Text)
		key := foldCase(text)
		if text == "" || e.Label == "" || seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, GazetteerEntry{Label: e.Label, Text: text})
		patterns = append(patterns, key)
	}
	if len(entries) == 0 {
		return nil, errors.Wrap(entity.ErrModelNotLoaded, "model has no entries")
	}

	return &Gazetteer{
		trie:    ahocorasick.NewTrieBuilder().AddStrings(patterns).Build(),
		entries: entries,
	}, nil
}

func (g *Gazetteer) Name() string {
	return "gazetteer"
}

// Path is the model file the gazetteer was loaded from, if any.
func (g *Gazetteer) Path() string {
	return g.path
}

// Size is the number of distinct surface forms.
func (g *Gazetteer) Size() int {
	return len(g.entries)
}

func (g *Gazetteer) Label(ctx context.Context, text string) ([]entity.LabeledSpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type hit struct {
		start, end int
		entry      int
	}
	var hits []hit
	for _, m := range g.trie.MatchString(foldCase(text)) {
		start := int(m.Pos())
		end := start + len(m.Match())
		if !onWordBoundary(text, start, end) {
			continue
		}
		hits = append(hits, hit{start: start, end: end, entry: int(m.Pattern())})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].start != hits[j].start {
			return hits[i].start < hits[j].start
		}
		return hits[i].end > hits[j].end
	})

	var spans []entity.LabeledSpan
	covered := 0
	for _, h := range hits {
		if h.start < covered {
			continue
		}
		covered = h.end
		spans = append(spans, entity.LabeledSpan{
			Label: g.entries[h.entry].Label,
			Start: h.start,
			End:   h.end,
			Text:  text[h.start:h.end],
		})
	}
	return spans, nil
}

// foldCase lower-cases s rune by rune, keeping any rune whose lower-case form
// has a different UTF-8 length so byte offsets stay aligned with s.
func foldCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		lr := unicode.ToLower(r)
		if utf8.RuneLen(lr) != size {
			lr = r
		}
		b.WriteRune(lr)
		i += size
	}
	return b.String()
}

func onWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

var _ entity.Labeler = (*Gazetteer)(nil)
