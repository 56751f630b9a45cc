// SPDX-License-Identifier: Apache-2.0

package annotation

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	connectivityType = "connectivity"
	outOfScopeNo     = "no"
)

// Transformer turns entries into export rows.
type Transformer struct {
	batchName string
	resolver  *Resolver
	logger    *zap.Logger
}

// NewTransformer creates a Transformer that labels rows with batchName and
// resolves references through resolver.
func NewTransformer(batchName string, resolver *Resolver, logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{
		batchName: batchName,
		resolver:  resolver,
		logger:    logger,
	}
}

// Transform processes entries in order and returns the rows that have a
// description. Accepted rows are numbered from 1.
func (t *Transformer) Transform(ctx context.Context, entries []Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for i, entry := range entries {
		row := t.ProcessEntry(ctx, entry)
		if !row.Valid() {
			t.logger.Debug("entry skipped: no description", zap.Int("index", i))
			continue
		}
		row[ColumnSentenceID] = strconv.Itoa(len(rows) + 1)
		rows = append(rows, row)
	}
	return rows
}

// ProcessEntry extracts one entry into a row. The row has no sentence_id; it
// is assigned by Transform on acceptance.
func (t *Transformer) ProcessEntry(ctx context.Context, entry Entry) Row {
	row := Row{}

	evidence, hasEvidence := entry.Strings("body", "evidence")
	if hasEvidence {
		for column, value := range ExtractIdentifiers(evidence) {
			row.Set(column, value)
		}
	}

	row.Set(ColumnBatchName, t.batchName)
	row.Set(ColumnOutOfScope, outOfScopeNo)

	if comment, ok := entry.String("body", "comment"); ok {
		row.AppendClause(comment)
	}

	if orcid, ok := entry.String("creator", "orcid"); ok {
		row.Set(ColumnORCID, orcid)
		row.AppendClause("This is annotated using orcid id:" + orcid)
	}

	if status, ok := entry.String("status"); ok {
		row.Set(ColumnStatus, status)
	}

	if annotationID, ok := entry.String("annotationId"); ok {
		url := t.resolver.AnnotationURL(annotationID)
		row.Set(ColumnID, annotationID)
		row.Set(ColumnURL, url)
		row.AppendClause("The annotation can be viewed at " + url)
	}

	if hasEvidence {
		row.Set(ColumnEvidence, strings.Join(evidence, ";"))
	}

	t.processStructures(entry, row)
	t.processResource(ctx, entry, row)

	return row
}

func (t *Transformer) processStructures(entry Entry, row Row) {
	if models, ok := entry.Strings("item", "models"); ok {
		joined := strings.Join(models, ";")
		row.Set(ColumnStructure1, joined)
		row.AppendClause("The annotated structure is " + joined)
		return
	}

	if isNewConnection(entry) {
		if origin := t.endpointStructures(entry, "source"); origin != "" {
			row.Set(ColumnStructure1, origin)
			row.AppendClause("The origin of this connection is " + origin)
		}
		if destination := t.endpointStructures(entry, "target"); destination != "" {
			row.Set(ColumnStructure2, destination)
			row.AppendClause("The destination of this connection is " + destination)
		}
		return
	}

	if entry.Has("item", "id") {
		row.AppendClause("This is a user drawn feature")
	}
}

// isNewConnection reports whether the entry is a freshly drawn connectivity
// line between two labelled features.
func isNewConnection(entry Entry) bool {
	kind, _ := entry.String("body", "type")
	return kind == connectivityType &&
		entry.Has("body", "source", "label") &&
		entry.Has("body", "target", "label")
}

// endpointStructures returns the models attached to a connection endpoint, or
// the annotations made on the feature it points to.
func (t *Transformer) endpointStructures(entry Entry, endpoint string) string {
	if models, ok := entry.Strings("body", endpoint, "models"); ok {
		return strings.Join(models, ";")
	}
	label, ok := entry.String("body", endpoint, "label")
	if !ok {
		return ""
	}
	return strings.Join(t.resolver.FeatureAnnotations(label), ";")
}

func (t *Transformer) processResource(ctx context.Context, entry Entry, row Row) {
	resource, ok := entry.String("resource")
	if !ok {
		return
	}
	md, ok := t.resolver.ResourceMetadata(ctx, resource)
	if !ok {
		return
	}

	if md.MapType != "" {
		row.Set(ColumnMapType, md.MapType)
		row.AppendClause("This annotation is made on a " + md.MapType + " map")
	}
	if md.Taxon != "" {
		row.Set(ColumnTaxon, md.Taxon)
		row.AppendClause("The taxon of the map is " + md.Taxon)
	}
	if md.Sckan != "" {
		row.Set(ColumnSckan, md.Sckan)
		row.AppendClause("The knowledge source of the map is " + md.Sckan)
	}
	row.Set(ColumnMapName, md.Name)
	row.Set(ColumnDescribes, md.Describes)
}
