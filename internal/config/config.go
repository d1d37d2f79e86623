// SPDX-License-Identifier: Apache-2.0

// Package config loads resumener settings from defaults, an optional YAML
// file and RESUMENER_* environment variables, in increasing precedence.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. RESUMENER_MODEL_PATH.
const EnvPrefix = "RESUMENER"

type Config struct {
	Model    ModelConfig    `mapstructure:"model" json:"model"`
	Patterns PatternsConfig `mapstructure:"patterns" json:"patterns"`
	Output   OutputConfig   `mapstructure:"output" json:"output"`
	Log      LogConfig      `mapstructure:"log" json:"log"`
	Workers  int            `mapstructure:"workers" json:"workers"`
}

// ModelConfig selects and locates the sequence labeler.
type ModelConfig struct {
	// Backend is "gazetteer" or "ollama".
	Backend string `mapstructure:"backend" json:"backend"`
	// Path is the gazetteer model file or directory.
	Path string `mapstructure:"path" json:"path"`
	// OllamaModel is the Ollama model tag.
	OllamaModel string `mapstructure:"ollama_model" json:"ollama_model"`
}

type PatternsConfig struct {
	// NameLabels are extra regular expression fragments that introduce a
	// name field, e.g. "Họ\\s+và\\s+tên".
	NameLabels []string `mapstructure:"name_labels" json:"name_labels"`
}

type OutputConfig struct {
	// Dir is where results are written; empty disables persistence.
	Dir    string `mapstructure:"dir" json:"dir"`
	Format string `mapstructure:"format" json:"format"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("model.backend", "gazetteer")
	v.SetDefault("model.path", "data/models/ner_resume")
	v.SetDefault("model.ollama_model", "llama3.2:3b")
	v.SetDefault("patterns.name_labels", []string{})
	v.SetDefault("output.dir", "")
	v.SetDefault("output.format", "json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("workers", 4)
}

// NewViper returns a viper instance with defaults and environment binding.
// If configPath is set, that YAML file is read and must exist.
func NewViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}
	return v, nil
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile is NewViper followed by Load.
func LoadFile(configPath string) (*Config, error) {
	v, err := NewViper(configPath)
	if err != nil {
		return nil, err
	}
	return Load(v)
}
