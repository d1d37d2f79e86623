// SPDX-License-Identifier: Apache-2.0

package entity

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FailureReason tags why a document produced no Result.
type FailureReason string

const (
	ReasonNoText            FailureReason = "no_text"
	ReasonUnsupportedFormat FailureReason = "unsupported_format"
	ReasonInference         FailureReason = "inference_failed"
	ReasonPersist           FailureReason = "persist_failed"
	ReasonCanceled          FailureReason = "canceled"
	ReasonExtraction        FailureReason = "extraction_failed"
)

// Failure is the tagged error half of an Outcome.
type Failure struct {
	Reason FailureReason
	Err    error
}

func (f *Failure) Error() string {
	return string(f.Reason) + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Classify maps a pipeline error to its failure reason.
func Classify(err error) FailureReason {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrUnreadable):
		return ReasonNoText
	case errors.Is(err, ErrUnsupportedFormat):
		return ReasonUnsupportedFormat
	case errors.Is(err, ErrInference):
		return ReasonInference
	case errors.Is(err, ErrPersist):
		return ReasonPersist
	default:
		return ReasonExtraction
	}
}

// Outcome is either a Result or a Failure for one document.
type Outcome struct {
	DocumentID string
	Result     *Result
	Failure    *Failure
}

func (o Outcome) OK() bool {
	return o.Failure == nil
}

// BatchReport collects one Outcome per input document, in input order.
type BatchReport struct {
	Outcomes []Outcome
}

func (r BatchReport) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

func (r BatchReport) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Results returns the successful results in input order.
func (r BatchReport) Results() []*Result {
	results := make([]*Result, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.OK() {
			results = append(results, o.Result)
		}
	}
	return results
}

// RunBatch processes documents independently with at most workers running at
// once. A failing document never stops the others; it is recorded as a tagged
// Outcome instead. Documents not started before ctx is done are marked
// canceled.
func (p *Pipeline) RunBatch(ctx context.Context, docs []Document, workers int) BatchReport {
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]Outcome, len(docs))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, doc := range docs {
		g.Go(func() error {
			outcomes[i] = p.runOne(ctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	return BatchReport{Outcomes: outcomes}
}

func (p *Pipeline) runOne(ctx context.Context, doc Document) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{DocumentID: doc.ID, Failure: &Failure{Reason: ReasonCanceled, Err: err}}
	}

	result, err := p.Run(ctx, doc)
	if err != nil {
		reason := Classify(err)
		p.logger.Warn("document skipped",
			zap.String("document", doc.ID),
			zap.String("reason", string(reason)),
			zap.Error(err))
		return Outcome{DocumentID: doc.ID, Failure: &Failure{Reason: reason, Err: err}}
	}
	return Outcome{DocumentID: doc.ID, Result: result}
}
