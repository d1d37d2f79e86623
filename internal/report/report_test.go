// SPDX-License-Identifier: Apache-2.0

package report_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumener/resumener/internal/entity"
	"github.com/resumener/resumener/internal/report"
)

func sampleResult() *entity.Result {
	conf := 0.9
	return &entity.Result{
		DocumentID: "cvs/Nguyễn Văn A.pdf",
		Names:      []string{"Nguyễn Văn A"},
		Emails:     []string{"a@example.com"},
		Details: entity.Details{
			Names:  []entity.Span{{Text: "Nguyễn Văn A", Start: 6, End: 21, Source: entity.SourcePattern, Confidence: &conf, Rule: "label"}},
			Emails: []entity.Span{{Text: "a@example.com", Start: 29, End: 42, Source: entity.SourcePattern, Rule: "email"}},
		},
	}
}

// ---------------------------------------------------------------------------
// Writer
// ---------------------------------------------------------------------------

func TestNewWriter(t *testing.T) {
	w, err := report.NewWriter("out", "")
	require.NoError(t, err)
	assert.Equal(t, report.FormatJSON, w.Format)

	w, err = report.NewWriter("out", "YML")
	require.NoError(t, err)
	assert.Equal(t, report.FormatYAML, w.Format)

	_, err = report.NewWriter("out", "csv")
	assert.Error(t, err)
}

func TestWriter_PathFor(t *testing.T) {
	w, err := report.NewWriter("out", "json")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("out", "jane_result.json"), w.PathFor("cvs/jane.pdf"))
	assert.Equal(t, filepath.Join("out", "stdin_result.json"), w.PathFor("stdin"))
}

func TestWriter_WriteJSON(t *testing.T) {
	dir := t.TempDir()
	w, err := report.NewWriter(dir, "json")
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), sampleResult()))

	raw, err := os.ReadFile(filepath.Join(dir, "Nguyễn Văn A_result.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Nguyễn Văn A", "non-ASCII text is not escaped")

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "cvs/Nguyễn Văn A.pdf", got["file"])
	assert.Equal(t, []any{"a@example.com"}, got["email"])

	details := got["details"].(map[string]any)
	emails := details["emails"].([]any)
	require.Len(t, emails, 1)
	assert.NotContains(t, emails[0], "confidence")
}

func TestWriter_WriteYAML(t *testing.T) {
	dir := t.TempDir()
	w, err := report.NewWriter(dir, "yaml")
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), sampleResult()))

	raw, err := os.ReadFile(filepath.Join(dir, "Nguyễn Văn A_result.yaml"))
	require.NoError(t, err)

	var got entity.Result
	require.NoError(t, yaml.Unmarshal(raw, &got))
	assert.Equal(t, sampleResult().Names, got.Names)
	require.Len(t, got.Details.Names, 1)
	require.NotNil(t, got.Details.Names[0].Confidence)
	assert.Equal(t, 0.9, *got.Details.Names[0].Confidence)
}

func TestWriter_WriteCanceled(t *testing.T) {
	w, err := report.NewWriter(t.TempDir(), "json")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Write(ctx, sampleResult()), context.Canceled)
}

// ---------------------------------------------------------------------------
// Summary
// ---------------------------------------------------------------------------

func TestSummarize(t *testing.T) {
	batch := entity.BatchReport{Outcomes: []entity.Outcome{
		{DocumentID: "a.pdf", Result: sampleResult()},
		{DocumentID: "b.pdf", Failure: &entity.Failure{Reason: entity.ReasonNoText, Err: errors.New("document has no text")}},
	}}

	s := report.Summarize(batch)
	assert.Equal(t, 2, s.Processed)
	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, []report.FailureSummary{
		{File: "b.pdf", Reason: "no_text", Error: "document has no text"},
	}, s.Failures)

	dir := t.TempDir()
	w, err := report.NewWriter(dir, "json")
	require.NoError(t, err)
	path, err := w.WriteSummary(batch)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "summary.json"), path)
	assert.FileExists(t, path)
}
