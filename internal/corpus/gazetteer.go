// SPDX-License-Identifier: Apache-2.0

package corpus

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"

	"github.com/resumener/resumener/internal/entity/labelers"
)

const gazetteerVersion = 1

// BuildGazetteer collects every annotated surface form into a gazetteer
// model. Surface forms are deduplicated case-insensitively; the first label
// wins. Examples should already have passed Validate.
func BuildGazetteer(examples []Example) labelers.GazetteerModel {
	model := labelers.GazetteerModel{Version: gazetteerVersion}
	seen := make(map[string]bool)
	for _, ex := range examples {
		offsets := runeByteOffsets(ex.Text)
		for _, a := range ex.Entities {
			if a.Start < 0 || a.Start >= a.End || a.End >= len(offsets) {
				continue
			}
			text := strings.TrimSpace(ex.Text[offsets[a.Start]:offsets[a.End]])
			key := strings.ToLower(text)
			if text == "" || seen[key] {
				continue
			}
			seen[key] = true
			model.Entries = append(model.Entries, labelers.GazetteerEntry{Label: a.Label, Text: text})
		}
	}
	return model
}

// WriteGazetteer stores model as model.yaml inside dir.
func WriteGazetteer(dir string, model labelers.GazetteerModel) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create model directory %s", dir)
	}
	content, err := yaml.Marshal(model)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal model")
	}
	path := filepath.Join(dir, labelers.ModelFileName)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}

// runeByteOffsets maps each rune index of s, plus len(s), to its byte offset.
func runeByteOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
