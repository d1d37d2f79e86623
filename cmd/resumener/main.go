// SPDX-License-Identifier: Apache-2.0

// Package main implements the resumener CLI: extract names and emails from
// résumés, serve the extractor over MCP, and prepare corpora and models.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	// cfgFile is the optional YAML configuration file
	cfgFile string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "resumener",
	Short: "Extract candidate names and emails from resumes",
	Long: `resumener finds person names and email addresses in resumes by combining
deterministic pattern rules with a sequence-labeling model. Pattern matches win
when both strategies report the same text.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(modelCmd)
}
