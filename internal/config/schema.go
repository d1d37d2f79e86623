// SPDX-License-Identifier: Apache-2.0

package config

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/cockroachdb/errors"
)

const schemaSource = `
#Config: {
	model: {
		backend:      "gazetteer" | "ollama"
		path:         string
		ollama_model: string
		if backend == "gazetteer" {
			path: !=""
		}
	}
	patterns: name_labels: [...string] | null
	output: {
		dir:    string
		format: "json" | "yaml" | "yml"
	}
	log: {
		level:  "debug" | "info" | "warn" | "error"
		format: "json" | "console"
	}
	workers: int & >=1 & <=64
}
`

// Validate checks cfg against the configuration schema.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return errors.Wrap(err, "config schema")
	}

	value := schema.Unify(ctx.Encode(cfg))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
