// SPDX-License-Identifier: Apache-2.0

package annotation_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparc-curation/annotation-export/internal/annotation"
)

func newTransformer(entries []annotation.Entry, opts ...annotation.Option) *annotation.Transformer {
	resolver := annotation.NewResolver(testResolverConfig(), entries, opts...)
	return annotation.NewTransformer("batch-1", resolver, nil)
}

func TestTransformer_EmptyEntryIsExcluded(t *testing.T) {
	entries := mustEntries(t, `[{}, {"unrelated": {"field": 1}}]`)
	rows := newTransformer(entries).Transform(context.Background(), entries)
	assert.Empty(t, rows)
}

func TestTransformer_CommentThenOrcid(t *testing.T) {
	entries := mustEntries(t, `[{"body": {"comment": "C"}, "creator": {"orcid": "O"}}]`)
	rows := newTransformer(entries).Transform(context.Background(), entries)

	require.Len(t, rows, 1)
	assert.Equal(t, "C. This is annotated using orcid id:O.", rows[0][annotation.ColumnSentence])
	assert.Equal(t, "O", rows[0][annotation.ColumnORCID])
}

func TestTransformer_DOIAndPMID(t *testing.T) {
	entries := mustEntries(t, `[{
		"body": {
			"comment": "Evidence for the connection",
			"evidence": ["https://doi.org/10.1/abc", "https://pubmed.ncbi.nlm.nih.gov/123", "https://pubmed.ncbi.nlm.nih.gov/nonnumeric"]
		}
	}]`)
	rows := newTransformer(entries).Transform(context.Background(), entries)

	require.Len(t, rows, 1)
	assert.Equal(t, "DOI:10.1/abc", rows[0][annotation.ColumnDOI])
	assert.Equal(t, "123", rows[0][annotation.ColumnPMID])
	assert.Equal(t,
		"https://doi.org/10.1/abc;https://pubmed.ncbi.nlm.nih.gov/123;https://pubmed.ncbi.nlm.nih.gov/nonnumeric",
		rows[0][annotation.ColumnEvidence])
}

func TestTransformer_NewConnectionResolvesFeature(t *testing.T) {
	entries := mustEntries(t, `[
		{"body": {"type": "connectivity", "source": {"label": "Feature 5"}, "target": {"label": "Feature 8"}}},
		{"item": {"id": "5"}, "annotationId": "99"}
	]`)
	rows := newTransformer(entries).Transform(context.Background(), entries)

	require.Len(t, rows, 2)
	connection := rows[0]
	assert.Equal(t, "https://annotator.example.org/annotations/99", connection[annotation.ColumnStructure1])
	assert.NotContains(t, connection, annotation.ColumnStructure2, "unresolved destination is omitted")
	assert.Equal(t, "The origin of this connection is https://annotator.example.org/annotations/99.",
		connection[annotation.ColumnSentence])

	feature := rows[1]
	assert.Equal(t,
		"The annotation can be viewed at https://annotator.example.org/annotations/99. This is a user drawn feature.",
		feature[annotation.ColumnSentence])
}

func TestTransformer_NewConnectionWithEndpointModels(t *testing.T) {
	entries := mustEntries(t, `[
		{"body": {
			"type": "connectivity",
			"source": {"label": "Feature 1", "models": ["UBERON:0002107"]},
			"target": {"label": "Feature 2"}
		}},
		{"item": {"id": 2}, "annotationId": 7}
	]`)
	rows := newTransformer(entries).Transform(context.Background(), entries)

	require.Len(t, rows, 2)
	assert.Equal(t, "UBERON:0002107", rows[0][annotation.ColumnStructure1])
	assert.Equal(t, "https://annotator.example.org/annotations/7", rows[0][annotation.ColumnStructure2])
	assert.Equal(t,
		"The origin of this connection is UBERON:0002107. The destination of this connection is https://annotator.example.org/annotations/7.",
		rows[0][annotation.ColumnSentence])
}

func TestTransformer_ConnectivityWithoutBothLabels(t *testing.T) {
	entries := mustEntries(t, `[{"body": {"type": "connectivity", "source": {"label": "Feature 1"}}}]`)
	rows := newTransformer(entries).Transform(context.Background(), entries)
	assert.Empty(t, rows)
}

func TestTransformer_ResourceTaxon(t *testing.T) {
	entries := mustEntries(t, `[{"resource": "`+testMapServer+`flatmap/`+testMapUUID+`"}]`)
	rows := newTransformer(entries, annotation.WithMapCatalog(humanCatalog())).Transform(context.Background(), entries)

	require.Len(t, rows, 1)
	assert.Equal(t, "NCBITaxon:9606", rows[0][annotation.ColumnTaxon])
	assert.Contains(t, rows[0][annotation.ColumnSentence], "The taxon of the map is NCBITaxon:9606.")
	assert.Equal(t, "Human male", rows[0][annotation.ColumnMapName])
}

func TestTransformer_FullRow(t *testing.T) {
	entries := mustEntries(t, `[{
		"annotationId": 12,
		"status": "new",
		"body": {
			"comment": "Connects A to B",
			"evidence": ["https://doi.org/10.1/x", "https://pubmed.ncbi.nlm.nih.gov/123"]
		},
		"creator": {"orcid": "0000-0001"},
		"item": {"id": "7", "models": ["UBERON:1", "UBERON:2"]},
		"resource": "`+testMapServer+`flatmap/`+testMapUUID+`"
	}]`)
	rows := newTransformer(entries, annotation.WithMapCatalog(humanCatalog())).Transform(context.Background(), entries)
	require.Len(t, rows, 1)

	want := annotation.Row{
		annotation.ColumnID:     "12",
		annotation.ColumnStatus: "new",
		annotation.ColumnPMID:   "123",
		annotation.ColumnDOI:    "DOI:10.1/x",
		annotation.ColumnSentence: "Connects A to B. " +
			"This is annotated using orcid id:0000-0001. " +
			"The annotation can be viewed at https://annotator.example.org/annotations/12. " +
			"The annotated structure is UBERON:1;UBERON:2. " +
			"This annotation is made on a Flatmap map. " +
			"The taxon of the map is NCBITaxon:9606. " +
			"The knowledge source of the map is sckan-2024-09-21.",
		annotation.ColumnBatchName:  "batch-1",
		annotation.ColumnSentenceID: "1",
		annotation.ColumnOutOfScope: "no",
		annotation.ColumnStructure1: "UBERON:1;UBERON:2",
		annotation.ColumnURL:        "https://annotator.example.org/annotations/12",
		annotation.ColumnORCID:      "0000-0001",
		annotation.ColumnMapType:    annotation.MapTypeFlatmap,
		annotation.ColumnTaxon:      "NCBITaxon:9606",
		annotation.ColumnSckan:      "sckan-2024-09-21",
		annotation.ColumnEvidence:   "https://doi.org/10.1/x;https://pubmed.ncbi.nlm.nih.gov/123",
		annotation.ColumnMapName:    "Human male",
		annotation.ColumnDescribes:  "NCBITaxon:9606",
	}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformer_SequenceOnlyCountsAcceptedRows(t *testing.T) {
	entries := mustEntries(t, `[
		{"body": {"comment": "first"}},
		{"status": "draft"},
		{"body": {"comment": "second"}}
	]`)
	rows := newTransformer(entries).Transform(context.Background(), entries)

	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0][annotation.ColumnSentenceID])
	assert.Equal(t, "first.", rows[0][annotation.ColumnSentence])
	assert.Equal(t, "2", rows[1][annotation.ColumnSentenceID])
	assert.Equal(t, "second.", rows[1][annotation.ColumnSentence])
}

func TestTransformer_ProcessEntryDefaults(t *testing.T) {
	entries := mustEntries(t, `[{"status": "approved", "item": {"id": 3}}]`)
	row := newTransformer(entries).ProcessEntry(context.Background(), entries[0])

	assert.Equal(t, "approved", row[annotation.ColumnStatus])
	assert.Equal(t, "batch-1", row[annotation.ColumnBatchName])
	assert.Equal(t, "no", row[annotation.ColumnOutOfScope])
	assert.Equal(t, "This is a user drawn feature.", row[annotation.ColumnSentence])
	assert.NotContains(t, row, annotation.ColumnSentenceID)
}
