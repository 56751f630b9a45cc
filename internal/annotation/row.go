// SPDX-License-Identifier: Apache-2.0

package annotation

import "strings"

// Output column names.
const (
	ColumnID         = "id"
	ColumnStatus     = "status"
	ColumnPMID       = "pmid"
	ColumnPMCID      = "pmcid"
	ColumnDOI        = "doi"
	ColumnSentence   = "sentence"
	ColumnBatchName  = "batch_name"
	ColumnSentenceID = "sentence_id"
	ColumnOutOfScope = "out_of_scope"
	ColumnStructure1 = "structure_1"
	ColumnStructure2 = "structure_2"
	ColumnURL        = "url"
	ColumnORCID      = "orcid"
	ColumnMapType    = "map_type"
	ColumnTaxon      = "taxon"
	ColumnSckan      = "sckan"
	ColumnEvidence   = "evidence"
	ColumnMapName    = "map_name"
	ColumnDescribes  = "describes"
)

// Columns is the fixed order in which rows are written.
var Columns = []string{
	ColumnID,
	ColumnStatus,
	ColumnPMID,
	ColumnPMCID,
	ColumnDOI,
	ColumnSentence,
	ColumnBatchName,
	ColumnSentenceID,
	ColumnOutOfScope,
	ColumnStructure1,
	ColumnStructure2,
	ColumnURL,
	ColumnORCID,
	ColumnMapType,
	ColumnTaxon,
	ColumnSckan,
	ColumnEvidence,
	ColumnMapName,
	ColumnDescribes,
}

// Row is one processed entry. Columns without a value are not present.
type Row map[string]string

// Set stores value under column, ignoring empty values.
func (r Row) Set(column, value string) {
	if value == "" {
		return
	}
	r[column] = value
}

// Values returns the row rendered in Columns order with absent columns as "".
func (r Row) Values() []string {
	values := make([]string, len(Columns))
	for i, column := range Columns {
		values[i] = r[column]
	}
	return values
}

// Valid reports whether the row has a description and should be exported.
func (r Row) Valid() bool {
	return r[ColumnSentence] != ""
}

// AppendClause adds a period-terminated clause to the row's sentence.
func (r Row) AppendClause(clause string) {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return
	}
	if !strings.HasSuffix(clause, ".") {
		clause += "."
	}
	if existing := r[ColumnSentence]; existing != "" {
		r[ColumnSentence] = existing + " " + clause
		return
	}
	r[ColumnSentence] = clause
}
