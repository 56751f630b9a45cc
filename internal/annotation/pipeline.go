// SPDX-License-Identifier: Apache-2.0

package annotation

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// EntrySource supplies the raw entries of a run.
type EntrySource interface {
	Fetch(ctx context.Context) ([]Entry, error)
	Name() string
}

// PipelineConfig controls which entries are exported and how rows are labelled.
type PipelineConfig struct {
	BatchName string
	Resolver  ResolverConfig
	// AnnotationIDs restricts the export to these annotations. Empty means all.
	AnnotationIDs []string
	// Limit caps the number of entries processed. Zero means no limit.
	Limit int
}

type Pipeline struct {
	source EntrySource
	config PipelineConfig
	opts   []Option
	logger *zap.Logger
}

// NewPipeline creates a Pipeline reading from source. The options are handed
// to the Resolver built for every run.
func NewPipeline(source EntrySource, config PipelineConfig, opts ...Option) *Pipeline {
	return &Pipeline{
		source: source,
		config: config,
		opts:   opts,
		logger: buildOptions(opts).logger,
	}
}

// RunResult is the output of a successful pipeline run.
type RunResult struct {
	Rows         []Row
	SourceUsed   string
	TotalEntries int
	Processed    int
	Resources    int
}

func (p *Pipeline) Run(ctx context.Context) ([]Row, error) {
	result, err := p.RunWithMeta(ctx)
	if err != nil {
		return nil, err
	}
	return result.Rows, nil
}

func (p *Pipeline) RunWithMeta(ctx context.Context) (RunResult, error) {
	entries, err := p.source.Fetch(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("source %q failed: %w", p.source.Name(), err)
	}
	p.logger.Info("entries fetched", zap.String("source", p.source.Name()), zap.Int("entries", len(entries)))

	result := p.Transform(ctx, entries)
	result.SourceUsed = p.source.Name()
	return result, nil
}

// Transform runs the transformation stages over entries that were already
// fetched. Every call uses a fresh Resolver and cache.
func (p *Pipeline) Transform(ctx context.Context, entries []Entry) RunResult {
	resolver := NewResolver(p.config.Resolver, entries, p.opts...)
	transformer := NewTransformer(p.config.BatchName, resolver, p.logger)

	selected := p.selectEntries(entries)
	rows := transformer.Transform(ctx, selected)

	p.logger.Info("entries transformed",
		zap.Int("processed", len(selected)),
		zap.Int("accepted", len(rows)),
		zap.Int("resources", resolver.Cache().Len()),
	)

	return RunResult{
		Rows:         rows,
		TotalEntries: len(entries),
		Processed:    len(selected),
		Resources:    resolver.Cache().Len(),
	}
}

// selectEntries applies the annotation id filter and the limit.
func (p *Pipeline) selectEntries(entries []Entry) []Entry {
	selected := entries
	if len(p.config.AnnotationIDs) > 0 {
		wanted := make(map[string]bool, len(p.config.AnnotationIDs))
		for _, id := range p.config.AnnotationIDs {
			wanted[id] = true
		}
		selected = make([]Entry, 0, len(p.config.AnnotationIDs))
		for _, entry := range entries {
			if id, ok := entry.String("annotationId"); ok && wanted[id] {
				selected = append(selected, entry)
			}
		}
	}
	if p.config.Limit > 0 && len(selected) > p.config.Limit {
		selected = selected[:p.config.Limit]
	}
	return selected
}
