// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.md", "notes.docx", "sub/c.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	missing := filepath.Join(dir, "missing.pdf")

	docs, err := collectDocuments([]string{dir, "-", missing}, strings.NewReader("Name: Jane Doe"))
	require.NoError(t, err)

	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "sub", "c.txt"),
		"stdin",
		missing,
	}, ids)

	assert.Equal(t, "md", docs[0].Format)
	assert.Equal(t, "pdf", docs[1].Format)
	assert.Equal(t, "text", docs[3].Format)
	assert.Equal(t, []byte("Name: Jane Doe"), docs[3].Content)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	require.NoError(t, extractCmd.Flags().Set("ollama-model", "qwen2.5:7b"))
	require.NoError(t, extractCmd.Flags().Set("backend", "ollama"))
	t.Cleanup(func() {
		_ = extractCmd.Flags().Set("ollama-model", "")
		_ = extractCmd.Flags().Set("backend", "gazetteer")
	})

	cfg, err := loadConfig(extractCmd)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Model.Backend)
	assert.Equal(t, "qwen2.5:7b", cfg.Model.OllamaModel)

	assert.NotNil(t, serveCmd.Flags().Lookup("ollama-model"))
}

func TestCommands_BuildModelAndExtract(t *testing.T) {
	work := t.TempDir()
	annotations := filepath.Join(work, "annotations")
	require.NoError(t, os.MkdirAll(annotations, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(annotations, "batch1.json"), []byte(`{
  "annotations": [
    ["Referee: Tran Thi B", {"entities": [[9, 19, "NAME"]]}],
    null,
    ["Contact tran@example.com", {"entities": [[8, 24, "EMAIL"]]}]
  ]
}`), 0o644))

	resume := filepath.Join(work, "resumes", "jane.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(resume), 0o755))
	require.NoError(t, os.WriteFile(resume, []byte("Name: Jane Doe\nReferee: Tran Thi B\njane@doe.dev"), 0o644))

	trainData := filepath.Join(work, "train_data.json")
	modelDir := filepath.Join(work, "models", "ner_resume")
	outDir := filepath.Join(work, "out")

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(args)
		require.NoError(t, rootCmd.ExecuteContext(context.Background()), "resumener %v", args)
		return out.String()
	}

	assert.Contains(t, run("corpus", "merge", annotations, trainData), "Merged 2 labeled examples from 1 files")
	assert.Contains(t, run("model", "build", "--min-examples", "1", trainData, modelDir), "Model entries: 2")
	assert.FileExists(t, filepath.Join(modelDir, "model.yaml"))

	out := run("extract", "--log-level", "error", "--model", modelDir, "--output-dir", outDir, resume)
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Tran Thi B")

	raw, err := os.ReadFile(filepath.Join(outDir, "jane_result.json"))
	require.NoError(t, err)
	var result struct {
		File  string   `json:"file"`
		Name  []string `json:"name"`
		Email []string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, resume, result.File)
	assert.Equal(t, []string{"Jane Doe", "Tran Thi B"}, result.Name)
	assert.Equal(t, []string{"jane@doe.dev"}, result.Email)
	assert.FileExists(t, filepath.Join(outDir, "summary.json"))
}
