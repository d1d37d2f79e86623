// SPDX-License-Identifier: Apache-2.0

package corpus

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// annotationFile is the export format of the annotation tool. Unlabeled
// texts are exported as null entries.
type annotationFile struct {
	Annotations []json.RawMessage `json:"annotations"`
}

// MergeStats describes a Merge run.
type MergeStats struct {
	Files    int
	Examples int
}

// Merge reads every *.json annotation file in dir, in file name order, and
// returns the union of their non-null examples.
func Merge(dir string) ([]Example, MergeStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, MergeStats{}, errors.Wrapf(err, "failed to read annotation directory %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var stats MergeStats
	var examples []Example
	for _, name := range names {
		fileExamples, err := readAnnotationFile(filepath.Join(dir, name))
		if err != nil {
			return nil, stats, err
		}
		stats.Files++
		examples = append(examples, fileExamples...)
	}
	stats.Examples = len(examples)
	return examples, stats, nil
}

func readAnnotationFile(path string) ([]Example, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var file annotationFile
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal %s", path)
	}

	examples := make([]Example, 0, len(file.Annotations))
	for i, raw := range file.Annotations {
		if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var ex Example
		if err := json.Unmarshal(raw, &ex); err != nil {
			return nil, errors.Wrapf(err, "%s: annotation %d", path, i)
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

// ReadTrainingData reads a merged training file written by WriteTrainingData.
func ReadTrainingData(path string) ([]Example, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read training data %s", path)
	}
	var examples []Example
	if err := json.Unmarshal(content, &examples); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal training data %s", path)
	}
	return examples, nil
}

// WriteTrainingData writes examples as an indented JSON array, keeping
// non-ASCII text unescaped.
func WriteTrainingData(path string, examples []Example) error {
	if examples == nil {
		examples = []Example{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(examples); err != nil {
		return errors.Wrap(err, "failed to encode training data")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
