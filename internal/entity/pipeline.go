// SPDX-License-Identifier: Apache-2.0

package entity

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Pipeline turns one document into a Result: text source, pattern and model
// extraction, fusion per entity type, then the optional sink.
type Pipeline struct {
	sources  []TextSource
	patterns *PatternExtractor
	model    *ModelExtractor
	sink     Sink
	logger   *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSources registers text sources. Order matters: the first source whose
// CanHandle accepts a document is used.
func WithSources(sources ...TextSource) Option {
	return func(p *Pipeline) {
		p.sources = append(p.sources, sources...)
	}
}

// WithPatterns replaces the default pattern extractor.
func WithPatterns(patterns *PatternExtractor) Option {
	return func(p *Pipeline) {
		if patterns != nil {
			p.patterns = patterns
		}
	}
}

// WithSink hands every assembled Result to sink.
func WithSink(sink Sink) Option {
	return func(p *Pipeline) {
		p.sink = sink
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a Pipeline around an already constructed model extractor.
func NewPipeline(model *ModelExtractor, opts ...Option) (*Pipeline, error) {
	if model == nil {
		return nil, errors.WithHint(ErrModelNotLoaded, "construct the model extractor before the pipeline")
	}
	p := &Pipeline{
		model:  model,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.patterns == nil {
		p.patterns = NewPatternExtractor(nil, p.logger)
	}
	return p, nil
}

// RunResult is the output of a successful pipeline run.
type RunResult struct {
	Result     *Result
	SourceUsed string
	TextLength int
}

// Extract runs both extractors over text and fuses their candidates per type.
func (p *Pipeline) Extract(ctx context.Context, text string) (map[Type][]Span, error) {
	fromPatterns := p.patterns.Extract(text)
	fromModel, err := p.model.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	merged := make(map[Type][]Span, len(typeNames))
	for _, t := range Types() {
		merged[t] = Merge(fromPatterns[t], fromModel[t])
	}
	return merged, nil
}

func (p *Pipeline) Run(ctx context.Context, doc Document) (*Result, error) {
	result, err := p.RunWithMeta(ctx, doc)
	if err != nil {
		return nil, err
	}
	return result.Result, nil
}

func (p *Pipeline) RunWithMeta(ctx context.Context, doc Document) (RunResult, error) {
	source, err := p.selectSource(doc)
	if err != nil {
		return RunResult{}, err
	}

	text, err := source.Text(ctx, doc)
	if err != nil {
		return RunResult{}, errors.Mark(errors.Wrapf(err, "text source %q failed", source.Name()), ErrUnreadable)
	}
	if strings.TrimSpace(text) == "" {
		return RunResult{}, errors.Wrapf(ErrEmptyText, "document %q", doc.ID)
	}

	p.logger.Debug("extracting entities",
		zap.String("document", doc.ID),
		zap.String("source", source.Name()),
		zap.Int("text_length", len(text)))

	merged, err := p.Extract(ctx, text)
	if err != nil {
		return RunResult{}, errors.Wrapf(err, "document %q", doc.ID)
	}

	result := newResult(doc.ID, merged)
	if p.sink != nil {
		if err := p.sink.Write(ctx, result); err != nil {
			return RunResult{}, errors.Mark(errors.Wrapf(err, "persisting result for %q", doc.ID), ErrPersist)
		}
	}

	p.logger.Info("document processed",
		zap.String("document", doc.ID),
		zap.Int("names", len(result.Names)),
		zap.Int("emails", len(result.Emails)))

	return RunResult{
		Result:     result,
		SourceUsed: source.Name(),
		TextLength: len(text),
	}, nil
}

// selectSource returns the first registered source that can handle the document.
func (p *Pipeline) selectSource(doc Document) (TextSource, error) {
	for _, source := range p.sources {
		if source.CanHandle(doc) {
			return source, nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "no text source found for document %q (format hint: %q)", doc.ID, doc.Format)
}

// RegisteredSources returns the names of all currently registered text sources.
func (p *Pipeline) RegisteredSources() []string {
	names := make([]string, len(p.sources))
	for i, source := range p.sources {
		names[i] = source.Name()
	}
	return names
}
