// SPDX-License-Identifier: Apache-2.0

package entity_test

import (
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumener/resumener/internal/entity"
)

// ---------------------------------------------------------------------------
// PatternExtractor
// ---------------------------------------------------------------------------

func TestPatternExtractor_Names(t *testing.T) {
	p := entity.NewPatternExtractor(nil, nil)

	tests := []struct {
		name     string
		text     string
		want     []string
		wantRule string
		wantConf float64
	}{
		{
			name:     "label prefix",
			text:     "Name: Nguyen Van A\nEmail: a@example.com",
			want:     []string{"Nguyen Van A"},
			wantRule: "label",
			wantConf: 0.9,
		},
		{
			name:     "full name label without colon",
			text:     "Full Name John Smith\nPhone: 0123",
			want:     []string{"John Smith"},
			wantRule: "label",
			wantConf: 0.9,
		},
		{
			name:     "vietnamese label",
			text:     "Tên: Trần Thị Bích\n",
			want:     []string{"Trần Thị Bích"},
			wantRule: "label",
			wantConf: 0.9,
		},
		{
			name:     "markdown heading",
			text:     "## Jane Doe\nSoftware engineer",
			want:     []string{"Jane Doe"},
			wantRule: "heading",
			wantConf: 0.8,
		},
		{
			name:     "upper-case surname is not cut in half",
			text:     "Name: John SMITH",
			want:     []string{"John"},
			wantRule: "label",
			wantConf: 0.9,
		},
		{
			name:     "capture stops before an upper-case middle name",
			text:     "Name: Nguyen VAN Thang",
			want:     []string{"Nguyen"},
			wantRule: "label",
			wantConf: 0.9,
		},
		{
			name:     "trailing upper-case word is dropped",
			text:     "Full Name: Tran Van AN",
			want:     []string{"Tran Van"},
			wantRule: "label",
			wantConf: 0.9,
		},
		{
			name: "nothing left after dropping the partial word",
			text: "Name: Le ĐỨC Anh",
			want: nil,
		},
		{
			name: "label inside a longer word is ignored",
			text: "UserName: Admin User",
			want: nil,
		},
		{
			name: "captured field label is rejected",
			text: "Name: Email Address",
			want: nil,
		},
		{
			name: "too short",
			text: "Name: Al",
			want: nil,
		},
		{
			name: "no names",
			text: "experience with go and kubernetes",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := p.Names(tt.text)
			var got []string
			for _, s := range spans {
				got = append(got, s.Text)
				assert.Equal(t, entity.SourcePattern, s.Source)
				assert.True(t, s.ValidIn(tt.text), "span %+v does not address its text", s)
				require.NotNil(t, s.Confidence)
				assert.Equal(t, tt.wantConf, *s.Confidence)
				assert.Equal(t, tt.wantRule, s.Rule)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatternExtractor_NamesEndOnWordBoundary(t *testing.T) {
	p := entity.NewPatternExtractor(nil, nil)
	texts := []string{
		"Name: John SMITH",
		"Name: McDonald Farm",
		"Tên: Trần THỊ Bích",
		"Full Name: Tran Van AN\nEmail: an@x.com",
		"## Jane Doe\nName: Nguyen Van A",
	}

	for _, text := range texts {
		for _, s := range p.Names(text) {
			require.True(t, s.ValidIn(text), "span %+v does not address its text", s)
			if s.End < len(text) {
				r, _ := utf8.DecodeRuneInString(text[s.End:])
				assert.False(t, unicode.IsLetter(r), "%q ends inside a word of %q", s.Text, text)
			}
		}
	}
}

func TestPatternExtractor_NamesDeduplicatesAcrossRules(t *testing.T) {
	p := entity.NewPatternExtractor(nil, nil)
	text := "## John Smith\nName: John Smith"

	spans := p.Names(text)
	require.Len(t, spans, 1)
	// The label rule runs first, so it owns the name even though the heading
	// appears earlier in the text.
	assert.Equal(t, "label", spans[0].Rule)
}

func TestPatternExtractor_ExtraLabels(t *testing.T) {
	t.Run("valid label is used", func(t *testing.T) {
		p := entity.NewPatternExtractor([]string{`Họ\s+và\s+tên`}, nil)
		spans := p.Names("Họ và tên: Le Minh Tuan")
		require.Len(t, spans, 1)
		assert.Equal(t, "Le Minh Tuan", spans[0].Text)
	})

	t.Run("invalid label is skipped", func(t *testing.T) {
		p := entity.NewPatternExtractor([]string{`Candidate(`}, nil)
		spans := p.Names("Name: Jane Roe")
		require.Len(t, spans, 1)
		assert.Equal(t, "Jane Roe", spans[0].Text)
	})
}

func TestPatternExtractor_Emails(t *testing.T) {
	p := entity.NewPatternExtractor(nil, nil)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single email",
			text: "Name: Nguyen Van A\nEmail: a@example.com",
			want: []string{"a@example.com"},
		},
		{
			name: "github addresses are filtered",
			text: "Contact github.com/johndoe, email john@github.io",
			want: nil,
		},
		{
			name: "two distinct emails keep text order",
			text: "a@x.com and later b@x.com",
			want: []string{"a@x.com", "b@x.com"},
		},
		{
			name: "exact duplicates keep the first occurrence",
			text: "a@x.com, a@x.com",
			want: []string{"a@x.com"},
		},
		{
			name: "repository url is filtered",
			text: "mirror at me@repo.git.example.com",
			want: nil,
		},
		{
			name: "profile link is filtered",
			text: "see https://me@linkedin.com",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := p.Emails(tt.text)
			var got []string
			for _, s := range spans {
				got = append(got, s.Text)
				assert.Nil(t, s.Confidence)
				assert.True(t, s.ValidIn(tt.text))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatternExtractor_ExtractIsDeterministic(t *testing.T) {
	p := entity.NewPatternExtractor(nil, nil)
	text := "## Jane Doe\nName: Jane Doe\nEmail: jane@doe.dev, jd@doe.dev"

	first := p.Extract(text)
	second := p.Extract(text)
	assert.Equal(t, first, second)
	assert.Len(t, first[entity.Name], 1)
	assert.Len(t, first[entity.Email], 2)
}
