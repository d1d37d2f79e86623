// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/resumener/resumener/internal/tool"
)

// serveCmd runs the MCP server on stdio
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extractor as an MCP tool over stdio",
	Long: `Serve the extract_resume_entities tool to MCP clients over stdio.

The model is loaded once at startup; the command exits immediately if it is
missing. Logs go to stderr because stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("model", "", "gazetteer model file or directory")
	serveCmd.Flags().String("backend", "", "model backend: gazetteer or ollama")
	serveCmd.Flags().String("ollama-model", "", "ollama model tag used by the ollama backend")
	serveCmd.Flags().String("output-dir", "", "also write one result file per request to this directory")
	serveCmd.Flags().String("format", "", "result file format: json or yaml")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	server := tool.NewServer(tool.NewExtractor(a.pipeline), version)
	a.logger.Info("starting MCP server on stdio transport")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "server run failed")
	}
	return nil
}
