// SPDX-License-Identifier: Apache-2.0

package labelers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumener/resumener/internal/entity"
	"github.com/resumener/resumener/internal/entity/labelers"
)

// fakeOllama serves /api/tags and answers /api/generate with reply.
func fakeOllama(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "llama3.2:3b", "model": "llama3.2:3b"}},
		})
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    "llama3.2:3b",
			"response": reply,
			"done":     true,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Setenv("OLLAMA_HOST", srv.URL)
	return srv
}

// ---------------------------------------------------------------------------
// Ollama
// ---------------------------------------------------------------------------

func TestOllama_Label(t *testing.T) {
	fakeOllama(t, "```json\n"+`{"entities":[
		{"text":"Jane Doe","label":"name"},
		{"text":"jane@doe.dev","label":"EMAIL"},
		{"text":"Jane Doe","label":"NAME"},
		{"text":"Nobody","label":"NAME"}
	]}`+"\n```")

	o, err := labelers.NewOllama(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "ollama", o.Name())

	text := "Jane Doe\njane@doe.dev\nReferences: Jane Doe"
	spans, err := o.Label(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, []entity.LabeledSpan{
		{Label: "NAME", Start: 0, End: 8, Text: "Jane Doe"},
		{Label: "EMAIL", Start: 9, End: 21, Text: "jane@doe.dev"},
		{Label: "NAME", Start: 34, End: 42, Text: "Jane Doe"},
	}, spans)
}

func TestOllama_InvalidReply(t *testing.T) {
	fakeOllama(t, "I cannot help with that")

	o, err := labelers.NewOllama(context.Background(), "llama3.2:3b")
	require.NoError(t, err)

	_, err = o.Label(context.Background(), "Name: Jane Doe")
	assert.Error(t, err)
}

func TestNewOllama_ModelNotPulled(t *testing.T) {
	fakeOllama(t, "{}")

	_, err := labelers.NewOllama(context.Background(), "mistral")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrModelNotLoaded))
	assert.Contains(t, errors.FlattenHints(err), "ollama pull mistral")
}
