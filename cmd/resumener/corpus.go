// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/resumener/resumener/internal/corpus"
	"github.com/resumener/resumener/internal/entity"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Prepare annotated training data",
}

var corpusMergeCmd = &cobra.Command{
	Use:   "merge <annotations-dir> <train_data.json>",
	Short: "Merge annotation tool exports into one training file",
	Long: `Merge every *.json annotation export in a directory into a single training
file. Unlabeled (null) entries are dropped.

Example:
  resumener corpus merge data/annotations data/train_data.json`,
	Args: cobra.ExactArgs(2),
	RunE: runCorpusMerge,
}

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage the gazetteer model",
}

var modelBuildCmd = &cobra.Command{
	Use:   "build <train_data.json> <model-dir>",
	Short: "Build a gazetteer model from merged training data",
	Long: `Build the gazetteer model used by the default backend. Every annotated
surface form whose label is one of --labels becomes a model entry.

Example:
  resumener model build data/train_data.json data/models/ner_resume`,
	Args: cobra.ExactArgs(2),
	RunE: runModelBuild,
}

func init() {
	corpusCmd.AddCommand(corpusMergeCmd)
	modelCmd.AddCommand(modelBuildCmd)

	var labels []string
	for _, t := range entity.Types() {
		labels = append(labels, t.String())
	}
	modelBuildCmd.Flags().StringSlice("labels", labels, "labels to keep")
	modelBuildCmd.Flags().Int("min-examples", 10, "minimum number of valid examples required")
}

func runCorpusMerge(cmd *cobra.Command, args []string) error {
	examples, stats, err := corpus.Merge(args[0])
	if err != nil {
		return err
	}
	if err := corpus.WriteTrainingData(args[1], examples); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d labeled examples from %d files into %s\n", stats.Examples, stats.Files, args[1])
	return nil
}

func runModelBuild(cmd *cobra.Command, args []string) error {
	labels, err := cmd.Flags().GetStringSlice("labels")
	if err != nil {
		return err
	}
	minExamples, err := cmd.Flags().GetInt("min-examples")
	if err != nil {
		return err
	}

	examples, err := corpus.ReadTrainingData(args[0])
	if err != nil {
		return err
	}
	kept, skipped := corpus.Validate(examples, labels)
	if len(kept) < minExamples {
		return errors.WithHint(
			errors.Newf("not enough valid training examples: %d (need %d)", len(kept), minExamples),
			"annotate more resumes or lower --min-examples")
	}

	model := corpus.BuildGazetteer(kept)
	path, err := corpus.WriteGazetteer(args[1], model)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Valid examples: %d (skipped %d invalid)\n", len(kept), skipped)
	fmt.Fprintf(out, "Labels: %s\n", strings.Join(labels, ", "))
	fmt.Fprintf(out, "Model entries: %d\n", len(model.Entries))
	fmt.Fprintf(out, "Saved model to %s\n", path)
	return nil
}
