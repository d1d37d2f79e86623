// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"encoding/base64"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/resumener/resumener/internal/entity"
)

// MetadataExtractResumeEntities describes the extract_resume_entities tool.
var MetadataExtractResumeEntities = &mcp.Tool{
	Name: "extract_resume_entities",
	Description: "Extract the candidate's person names and email addresses from a resume. " +
		"Pattern rules (labelled 'Name:' fields, markdown headings, email syntax) are combined with " +
		"the loaded sequence-labeling model; on conflicting text the pattern match wins. " +
		"Each detail entry carries its byte offsets, its source (pattern or model) and, for " +
		"pattern-matched names, a static confidence score.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Resume text (plain text or markdown).",
			},
			"content_base64": map[string]interface{}{
				"type":        "string",
				"description": "Base64-encoded document bytes, for binary formats such as PDF. Used when content is empty.",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Format hint for the document. If omitted, auto-detection is used.",
				"enum":        []string{"text", "markdown", "pdf"},
			},
			"source_id": map[string]interface{}{
				"type":        "string",
				"description": "Optional identifier for the document (file name, URL, etc.) reported as the result's file.",
			},
		},
	},
}

// InputExtractResumeEntities is the input for the ExtractResumeEntities tool.
type InputExtractResumeEntities struct {
	Content       string `json:"content"`
	ContentBase64 string `json:"content_base64"`
	Format        string `json:"format"`
	SourceID      string `json:"source_id"`
}

// OutputExtractResumeEntities is the output for the ExtractResumeEntities tool.
type OutputExtractResumeEntities struct {
	// Result holds the detected names and emails plus their spans.
	Result *entity.Result `json:"result"`
	// SourceUsed is the name of the text source that was selected.
	SourceUsed string `json:"source_used"`
	// TextLength is the length in bytes of the text that was scanned.
	TextLength int `json:"text_length"`
}

// Extractor serves extraction requests from a shared pipeline.
type Extractor struct {
	pipeline *entity.Pipeline
}

func NewExtractor(pipeline *entity.Pipeline) *Extractor {
	return &Extractor{pipeline: pipeline}
}

// ExtractResumeEntities runs the entity pipeline over the provided document.
func (e *Extractor) ExtractResumeEntities(ctx context.Context, _ *mcp.CallToolRequest, input InputExtractResumeEntities) (*mcp.CallToolResult, OutputExtractResumeEntities, error) {
	content := []byte(input.Content)
	if input.Content == "" && input.ContentBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(input.ContentBase64)
		if err != nil {
			return nil, OutputExtractResumeEntities{}, errors.Wrap(err, "content_base64 is not valid base64")
		}
		content = decoded
	}
	if len(content) == 0 {
		return nil, OutputExtractResumeEntities{}, errors.New("content is required")
	}

	sourceID := input.SourceID
	if sourceID == "" {
		sourceID = "unknown"
	}

	doc := entity.Document{
		Content: content,
		Format:  input.Format,
		ID:      sourceID,
	}

	result, err := e.pipeline.RunWithMeta(ctx, doc)
	if err != nil {
		return nil, OutputExtractResumeEntities{}, err
	}

	return nil, OutputExtractResumeEntities{
		Result:     result.Result,
		SourceUsed: result.SourceUsed,
		TextLength: result.TextLength,
	}, nil
}

// NewServer creates an MCP server exposing the extraction tool.
func NewServer(extractor *Extractor, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "resumener",
		Version: version,
	}, nil)
	mcp.AddTool(server, MetadataExtractResumeEntities, extractor.ExtractResumeEntities)
	return server
}
