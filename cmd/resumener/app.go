// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/resumener/resumener/internal/config"
	"github.com/resumener/resumener/internal/entity"
	"github.com/resumener/resumener/internal/entity/labelers"
	"github.com/resumener/resumener/internal/entity/sources"
	"github.com/resumener/resumener/internal/logging"
	"github.com/resumener/resumener/internal/report"
)

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"model":        "model.path",
	"backend":      "model.backend",
	"ollama-model": "model.ollama_model",
	"output-dir":   "output.dir",
	"format":       "output.format",
	"workers":      "workers",
}

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	pipeline *entity.Pipeline
	writer   *report.Writer
}

// loadConfig resolves configuration for cmd: defaults, config file,
// environment, then any flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}
	return config.Load(v)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "binding flag --%s", flag)
		}
	}
	return nil
}

// newApp loads the model once and wires the pipeline. Model problems are
// fatal here, before any document is read.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	labeler, err := newLabeler(ctx, cfg.Model, logger)
	if err != nil {
		return nil, err
	}
	model, err := entity.NewModelExtractor(labeler, logger)
	if err != nil {
		return nil, err
	}

	opts := []entity.Option{
		entity.WithLogger(logger),
		entity.WithPatterns(entity.NewPatternExtractor(cfg.Patterns.NameLabels, logger)),
		entity.WithSources(sources.NewPDFSource(), sources.NewMarkdownSource(), sources.NewPlainTextSource()),
	}

	var writer *report.Writer
	if cfg.Output.Dir != "" {
		writer, err = report.NewWriter(cfg.Output.Dir, cfg.Output.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, entity.WithSink(writer))
	}

	pipeline, err := entity.NewPipeline(model, opts...)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		pipeline: pipeline,
		writer:   writer,
	}, nil
}

func newLabeler(ctx context.Context, cfg config.ModelConfig, logger *zap.Logger) (entity.Labeler, error) {
	switch cfg.Backend {
	case "gazetteer":
		g, err := labelers.LoadGazetteer(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded model", zap.String("path", g.Path()), zap.Int("entries", g.Size()))
		return g, nil
	case "ollama":
		o, err := labelers.NewOllama(ctx, cfg.OllamaModel)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to ollama", zap.String("model", cfg.OllamaModel))
		return o, nil
	default:
		return nil, errors.Newf("unknown model backend %q", cfg.Backend)
	}
}
