// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resumener/resumener/internal/entity"
)

// documentExtensions are the files picked up when a directory is given.
var documentExtensions = map[string]bool{
	".pdf":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// extractCmd extracts entities from files, directories or stdin
var extractCmd = &cobra.Command{
	Use:   "extract [path...]",
	Short: "Extract names and emails from resumes",
	Long: `Extract names and emails from resume files.

Each argument is a PDF, text or markdown file, a directory (searched
recursively for such files), or "-" for text on stdin. Every document is
processed independently; a failing document is reported and skipped.

Examples:
  # Extract from one PDF with the default gazetteer model
  resumener extract data/samples/resume.pdf

  # Process a directory and store JSON results
  resumener extract --output-dir data/predictions data/text

  # Use a local Ollama model instead of the gazetteer
  resumener extract --backend ollama resume.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("model", "", "gazetteer model file or directory")
	extractCmd.Flags().String("backend", "", "model backend: gazetteer or ollama")
	extractCmd.Flags().String("ollama-model", "", "ollama model tag used by the ollama backend")
	extractCmd.Flags().String("output-dir", "", "write one result file per document to this directory")
	extractCmd.Flags().String("format", "", "result file format: json or yaml")
	extractCmd.Flags().Int("workers", 0, "documents processed in parallel")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	docs, err := collectDocuments(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	a.logger.Info("processing documents", zap.Int("count", len(docs)), zap.Int("workers", a.cfg.Workers))

	batch := a.pipeline.RunBatch(ctx, docs, a.cfg.Workers)

	out := cmd.OutOrStdout()
	for _, o := range batch.Outcomes {
		renderOutcome(out, o)
	}
	renderSummary(out, batch)

	if a.writer != nil {
		path, err := a.writer.WriteSummary(batch)
		if err != nil {
			return err
		}
		a.logger.Info("saved summary", zap.String("path", path))
	}

	if failed := batch.Failed(); failed > 0 {
		return errors.Newf("%d of %d documents failed", failed, len(batch.Outcomes))
	}
	return nil
}

// collectDocuments expands args into documents in a stable order.
func collectDocuments(args []string, stdin io.Reader) ([]entity.Document, error) {
	var docs []entity.Document
	for _, arg := range args {
		if arg == "-" {
			content, err := io.ReadAll(stdin)
			if err != nil {
				return nil, errors.Wrap(err, "failed to read from stdin")
			}
			docs = append(docs, entity.Document{ID: "stdin", Content: content, Format: "text"})
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			// Reported as that document's failure rather than aborting the batch.
			docs = append(docs, fileDocument(arg))
			continue
		}
		if !info.IsDir() {
			docs = append(docs, fileDocument(arg))
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && documentExtensions[strings.ToLower(filepath.Ext(path))] {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan %s", arg)
		}
		sort.Strings(found)
		for _, path := range found {
			docs = append(docs, fileDocument(path))
		}
	}
	return docs, nil
}

func fileDocument(path string) entity.Document {
	return entity.Document{
		ID:     path,
		Path:   path,
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}
}
