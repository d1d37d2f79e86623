// SPDX-License-Identifier: Apache-2.0

package labelers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ollama/ollama/api"

	"github.com/resumener/resumener/internal/entity"
)

// DefaultOllamaModel is used when no model name is configured.
const DefaultOllamaModel = "llama3.2:3b"

const ollamaPrompt = `You label identity entities in resume text.

Find every person NAME and every EMAIL address in the resume below.

RULES:
1. Output ONLY a valid JSON object with exactly one key: "entities".
2. "entities" is an array of objects with two string fields: "text" and "label".
3. "label" is either "NAME" or "EMAIL".
4. "text" must be copied exactly as it appears in the resume.

Resume:
%s
`

// Ollama labels text by prompting a local Ollama model. Offsets are recovered
// by locating each returned text in the input.
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama connects to the Ollama server configured by the environment
// (OLLAMA_HOST) and verifies the model is available before returning.
func NewOllama(ctx context.Context, model string) (*Ollama, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ollama client")
	}
	if model == "" {
		model = DefaultOllamaModel
	}

	o := &Ollama{client: client, model: model}
	if err := o.checkAvailable(ctx); err != nil {
		return nil, errors.WithHintf(
			errors.Mark(err, entity.ErrModelNotLoaded),
			"start ollama and run: ollama pull %s", model)
	}
	return o, nil
}

func (o *Ollama) Name() string {
	return "ollama"
}

func (o *Ollama) checkAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp, err := o.client.List(ctx)
	if err != nil {
		return errors.Wrap(err, "ollama service not available")
	}
	for _, m := range resp.Models {
		if m.Name == o.model || m.Model == o.model || strings.TrimSuffix(m.Name, ":latest") == o.model {
			return nil
		}
	}
	return errors.Newf("ollama model %q is not pulled", o.model)
}

type ollamaResponse struct {
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
}

func (o *Ollama) Label(ctx context.Context, text string) ([]entity.LabeledSpan, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  o.model,
		Prompt: fmt.Sprintf(ollamaPrompt, text),
		Format: json.RawMessage(`"json"`),
		Stream: &stream,
	}

	var out strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "ollama generation failed")
	}

	var parsed ollamaResponse
	if err := json.Unmarshal([]byte(cleanJSON(out.String())), &parsed); err != nil {
		return nil, errors.Wrapf(err, "failed to parse ollama json (response: %s)", out.String())
	}

	// Repeated mentions of one text are located left to right.
	next := make(map[string]int)
	var spans []entity.LabeledSpan
	for _, e := range parsed.Entities {
		mention := strings.TrimSpace(e.Text)
		if mention == "" {
			continue
		}
		from := next[mention]
		idx := strings.Index(text[from:], mention)
		if idx < 0 {
			continue
		}
		start := from + idx
		end := start + len(mention)
		next[mention] = end
		spans = append(spans, entity.LabeledSpan{
			Label: strings.ToUpper(strings.TrimSpace(e.Label)),
			Start: start,
			End:   end,
			Text:  mention,
		})
	}
	return spans, nil
}

// cleanJSON strips markdown fences some models add despite JSON mode.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var _ entity.Labeler = (*Ollama)(nil)
