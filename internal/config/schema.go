// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

const configSchema = `
#URL: =~"^https?://"

#Config: {
	download_url:           #URL
	map_server_url:         "" | #URL
	resource_separator:     string
	annotation_view_url:    #URL
	batch_name:             string & !=""
	output:                 string & !=""
	format?:                "" | "csv" | "tsv"
	resolve_resource_taxon: bool
	annotation_ids?:        null | [...string & !=""]
	limit:                  int & >=0
	timeout_seconds:        int & >0
	requests_per_second:    number & >0
}
`

// Validate checks the configuration against the schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := schema.Unify(ctx.Encode(c))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s", cueerrors.Details(err, nil))
	}
	return nil
}
