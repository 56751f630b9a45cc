// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sparc-curation/annotation-export/internal/annotation"
	"github.com/sparc-curation/annotation-export/internal/annotation/sources"
	"github.com/sparc-curation/annotation-export/internal/annotation/writers"
)

// MetadataExportAnnotations describes the export_annotations tool.
var MetadataExportAnnotations = &mcp.Tool{
	Name: "export_annotations",
	Description: "Transform raw map annotation records into curation rows. " +
		"Each accepted row carries literature identifiers (pmid, pmcid, doi), the annotated " +
		"structures, provenance (orcid, annotation link) and map metadata, together with a " +
		"generated descriptive sentence. Records that produce no sentence are dropped. " +
		"The rows are also returned rendered as CSV or TSV.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"entries"},
		"properties": map[string]interface{}{
			"entries": map[string]interface{}{
				"type":        "string",
				"description": "JSON (or YAML) array of annotation records as downloaded from the annotator service",
			},
			"batch_name": map[string]interface{}{
				"type":        "string",
				"description": "Batch label written to every row. Defaults to the server's configured batch name.",
			},
			"map_server_url": map[string]interface{}{
				"type":        "string",
				"description": "Flatmap server whose map listing resolves map resources for this call. Defaults to the server's configured map server.",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Rendering of the delimited output. One of: csv, tsv. Defaults to csv.",
				"enum":        []string{"csv", "tsv"},
			},
		},
	},
}

// InputExportAnnotations is the input for the ExportAnnotations tool.
type InputExportAnnotations struct {
	Entries      string `json:"entries"`
	BatchName    string `json:"batch_name"`
	MapServerURL string `json:"map_server_url"`
	Format       string `json:"format"`
}

// OutputExportAnnotations is the output for the ExportAnnotations tool.
type OutputExportAnnotations struct {
	// Rows are the accepted rows keyed by column name.
	Rows []annotation.Row `json:"rows"`
	// Delimited is the rows rendered with a header line.
	Delimited    string `json:"delimited"`
	TotalEntries int    `json:"total_entries"`
	Accepted     int    `json:"accepted"`
}

// Exporter serves the export_annotations tool. The pipeline configuration is
// fixed except for the per-call overrides in InputExportAnnotations; client
// fetches the map listing when a call names its own map server.
type Exporter struct {
	config annotation.PipelineConfig
	client *sources.Client
	opts   []annotation.Option
}

func NewExporter(config annotation.PipelineConfig, client *sources.Client, opts ...annotation.Option) *Exporter {
	if client == nil {
		client = sources.NewClient(sources.ClientConfig{})
	}
	return &Exporter{config: config, client: client, opts: opts}
}

// inlineSource serves entries passed in a tool call.
type inlineSource struct {
	entries []annotation.Entry
}

func (s inlineSource) Name() string { return "inline" }

func (s inlineSource) Fetch(context.Context) ([]annotation.Entry, error) {
	return s.entries, nil
}

// ExportAnnotations runs the annotation pipeline over the provided records.
func (e *Exporter) ExportAnnotations(ctx context.Context, _ *mcp.CallToolRequest, input InputExportAnnotations) (*mcp.CallToolResult, OutputExportAnnotations, error) {
	if strings.TrimSpace(input.Entries) == "" {
		return nil, OutputExportAnnotations{}, fmt.Errorf("entries is required")
	}

	entries, err := sources.DecodeEntries([]byte(input.Entries))
	if err != nil {
		return nil, OutputExportAnnotations{}, err
	}

	format, err := writers.ParseFormat(input.Format, "")
	if err != nil {
		return nil, OutputExportAnnotations{}, err
	}

	config := e.config
	if input.BatchName != "" {
		config.BatchName = input.BatchName
	}

	opts := e.opts
	if url := strings.TrimSpace(input.MapServerURL); url != "" {
		config.Resolver.MapServerURL = url
		opts = append(append([]annotation.Option{}, e.opts...), annotation.WithMapCatalog(sources.NewMapServer(e.client, url)))
	}

	pipeline := annotation.NewPipeline(inlineSource{entries: entries}, config, opts...)
	result, err := pipeline.RunWithMeta(ctx)
	if err != nil {
		return nil, OutputExportAnnotations{}, err
	}

	var buf bytes.Buffer
	if err := writers.Write(&buf, format, result.Rows); err != nil {
		return nil, OutputExportAnnotations{}, err
	}

	return nil, OutputExportAnnotations{
		Rows:         result.Rows,
		Delimited:    buf.String(),
		TotalEntries: result.TotalEntries,
		Accepted:     len(result.Rows),
	}, nil
}
