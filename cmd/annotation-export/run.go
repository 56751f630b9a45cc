// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparc-curation/annotation-export/internal/annotation"
	"github.com/sparc-curation/annotation-export/internal/annotation/sources"
	"github.com/sparc-curation/annotation-export/internal/annotation/writers"
	"github.com/sparc-curation/annotation-export/internal/config"
	"github.com/sparc-curation/annotation-export/internal/logging"
)

type runFlags struct {
	input         string
	output        string
	format        string
	batchName     string
	downloadURL   string
	mapServerURL  string
	annotationIDs []string
	limit         int
}

func newRunCmd(a *app) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download annotations and write the curation file",
		Long: `Downloads every annotation record, transforms each into a curation row and
writes the rows that have a description to the output file.

A failed download aborts the run. Failed map metadata lookups only leave the
affected columns empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			format, err := writers.ParseFormat(cfg.Format, cfg.Output)
			if err != nil {
				return err
			}

			logger, runID := logging.ForRun(a.logger)
			pipeline := annotation.NewPipeline(f.source(cfg), cfg.PipelineConfig(), metadataOptions(cfg, metadataClient(cfg), logger)...)

			result, err := pipeline.RunWithMeta(cmd.Context())
			if err != nil {
				logger.Error("annotation download failed", zap.Error(err))
				return fmt.Errorf("fetch annotations: %w", err)
			}

			if err := writers.WriteFile(cfg.Output, format, result.Rows); err != nil {
				return err
			}
			logger.Info("export written",
				zap.String("output", cfg.Output),
				zap.String("format", string(format)),
				zap.Int("rows", len(result.Rows)),
				zap.Int("entries", result.TotalEntries),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: wrote %d of %d entries to %s\n",
				runID, len(result.Rows), result.TotalEntries, cfg.Output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "read entries from a saved JSON/YAML dump instead of downloading")
	flags.StringVarP(&f.output, "output", "o", "", "output file (default from config)")
	flags.StringVar(&f.format, "format", "", "output format: csv or tsv (default by output extension)")
	flags.StringVar(&f.batchName, "batch-name", "", "batch label written to every row")
	flags.StringVar(&f.downloadURL, "download-url", "", "annotation download endpoint")
	flags.StringVar(&f.mapServerURL, "map-server-url", "", "flatmap server base URL")
	flags.StringSliceVar(&f.annotationIDs, "annotation-id", nil, "only export these annotation ids (repeatable)")
	flags.IntVar(&f.limit, "limit", 0, "process at most this many entries (0 = all)")
	return cmd
}

// apply overrides cfg with the flags that were set on the command line.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("batch-name") {
		cfg.BatchName = f.batchName
	}
	if flags.Changed("download-url") {
		cfg.DownloadURL = f.downloadURL
	}
	if flags.Changed("map-server-url") {
		cfg.MapServerURL = f.mapServerURL
	}
	if flags.Changed("annotation-id") {
		cfg.AnnotationIDs = f.annotationIDs
	}
	if flags.Changed("limit") {
		cfg.Limit = f.limit
	}
}

func (f *runFlags) source(cfg *config.Config) annotation.EntrySource {
	if f.input != "" {
		return sources.NewFileSource(f.input)
	}
	client := sources.NewClient(sources.ClientConfig{
		Auth:      sources.BearerToken{Token: cfg.Token},
		Timeout:   cfg.Timeout(),
		RateLimit: cfg.RequestsPerSecond,
	})
	return sources.NewDownloadSource(client, cfg.DownloadURL)
}
