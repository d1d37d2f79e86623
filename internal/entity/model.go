// SPDX-License-Identifier: Apache-2.0

package entity

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// LabeledSpan is a single prediction from a sequence labeler. Start and End
// are byte offsets into the text that was labeled.
type LabeledSpan struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Labeler is an already-loaded sequence-labeling model.
type Labeler interface {
	Label(ctx context.Context, text string) ([]LabeledSpan, error)
	Name() string
}

// ModelExtractor adapts a Labeler's predictions to candidate spans.
type ModelExtractor struct {
	labeler Labeler
	logger  *zap.Logger
}

// NewModelExtractor wraps labeler. A nil labeler is a missing prerequisite and
// fails immediately.
func NewModelExtractor(labeler Labeler, logger *zap.Logger) (*ModelExtractor, error) {
	if labeler == nil {
		return nil, errors.WithHint(ErrModelNotLoaded, "load or build a model before extracting entities")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelExtractor{
		labeler: labeler,
		logger:  logger.Named("model").With(zap.String("labeler", labeler.Name())),
	}, nil
}

// LabelerName returns the name of the wrapped labeler.
func (m *ModelExtractor) LabelerName() string {
	return m.labeler.Name()
}

// Extract labels text and groups the predictions by entity type. Labels
// outside the recognized types are dropped, as are spans whose offsets do
// not address their text. Labeler failures are returned to the caller.
func (m *ModelExtractor) Extract(ctx context.Context, text string) (map[Type][]Span, error) {
	predictions, err := m.labeler.Label(ctx, text)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "labeler %q failed", m.labeler.Name()), ErrInference)
	}

	spans := make(map[Type][]Span, len(typeNames))
	for _, p := range predictions {
		typ, ok := ParseType(p.Label)
		if !ok {
			m.logger.Warn("dropping unrecognized label", zap.String("label", p.Label), zap.String("text", p.Text))
			continue
		}

		span := Span{
			Text:   p.Text,
			Start:  p.Start,
			End:    p.End,
			Source: SourceModel,
			Rule:   m.labeler.Name(),
		}
		if !span.ValidIn(text) {
			m.logger.Debug("discarding span with invalid offsets",
				zap.String("label", p.Label), zap.Int("start", p.Start), zap.Int("end", p.End))
			continue
		}
		if typ == Email && !plausibleEmail(span.Text) {
			continue
		}
		spans[typ] = append(spans[typ], span)
	}
	return spans, nil
}
