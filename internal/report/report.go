// SPDX-License-Identifier: Apache-2.0

// Package report persists extraction results as JSON or YAML files.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"

	"github.com/resumener/resumener/internal/entity"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Writer stores each result as <stem>_result.<format> under Dir.
type Writer struct {
	Dir    string
	Format string
}

// NewWriter validates format and returns a Writer for dir.
func NewWriter(dir, format string) (*Writer, error) {
	format = strings.ToLower(format)
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatYAML:
	case "yml":
		format = FormatYAML
	default:
		return nil, errors.Newf("unsupported report format %q", format)
	}
	return &Writer{Dir: dir, Format: format}, nil
}

// PathFor returns the file a result for documentID is written to.
func (w *Writer) PathFor(documentID string) string {
	base := filepath.Base(documentID)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(w.Dir, stem+"_result."+w.Format)
}

func (w *Writer) Write(ctx context.Context, result *entity.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	content, err := Encode(result, w.Format)
	if err != nil {
		return err
	}
	return w.writeFile(w.PathFor(result.DocumentID), content)
}

// Summary is the persisted form of a batch run.
type Summary struct {
	Processed int              `json:"processed" yaml:"processed"`
	Succeeded int              `json:"succeeded" yaml:"succeeded"`
	Failed    int              `json:"failed" yaml:"failed"`
	Failures  []FailureSummary `json:"failures" yaml:"failures"`
}

type FailureSummary struct {
	File   string `json:"file" yaml:"file"`
	Reason string `json:"reason" yaml:"reason"`
	Error  string `json:"error" yaml:"error"`
}

// Summarize condenses a batch report.
func Summarize(report entity.BatchReport) Summary {
	s := Summary{
		Processed: len(report.Outcomes),
		Succeeded: report.Succeeded(),
		Failed:    report.Failed(),
		Failures:  []FailureSummary{},
	}
	for _, o := range report.Outcomes {
		if o.OK() {
			continue
		}
		s.Failures = append(s.Failures, FailureSummary{
			File:   o.DocumentID,
			Reason: string(o.Failure.Reason),
			Error:  o.Failure.Err.Error(),
		})
	}
	return s
}

// WriteSummary stores the batch summary as summary.<format> under Dir.
func (w *Writer) WriteSummary(report entity.BatchReport) (string, error) {
	content, err := Encode(Summarize(report), w.Format)
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.Dir, "summary."+w.Format)
	return path, w.writeFile(path, content)
}

func (w *Writer) writeFile(path string, content []byte) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", w.Dir)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// Encode renders v as indented JSON (non-ASCII kept as is) or YAML.
func Encode(v any, format string) ([]byte, error) {
	if format == FormatYAML {
		out, err := yaml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal YAML")
		}
		return out, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "failed to marshal JSON")
	}
	return buf.Bytes(), nil
}

var _ entity.Sink = (*Writer)(nil)
