// SPDX-License-Identifier: Apache-2.0

package annotation

import (
	"regexp"
	"strings"
)

// identifierRule maps an evidence URL prefix to the column that stores the
// identifier found after it.
type identifierRule struct {
	prefix string
	column string
	valid  func(suffix string) bool
	render func(suffix string) string
}

var pmcidPattern = regexp.MustCompile(`^PMC[0-9]+$`)

// identifierRules is evaluated in order; the first rule whose prefix matches
// an evidence URL claims it.
var identifierRules = []identifierRule{
	{
		prefix: "https://doi.org/",
		column: ColumnDOI,
		valid:  func(s string) bool { return s != "" },
		render: func(s string) string { return "DOI:" + s },
	},
	{
		prefix: "https://pubmed.ncbi.nlm.nih.gov/",
		column: ColumnPMID,
		valid:  isNumeric,
	},
	{
		prefix: "https://www.ncbi.nlm.nih.gov/pmc/articles/",
		column: ColumnPMCID,
		valid:  pmcidPattern.MatchString,
	},
}

// ExtractIdentifiers classifies evidence URLs into literature identifiers and
// returns them keyed by column. Several identifiers of one kind are joined
// with ";" in evidence order.
func ExtractIdentifiers(urls []string) map[string]string {
	found := make(map[string][]string)
	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		for _, rule := range identifierRules {
			if !strings.HasPrefix(u, rule.prefix) {
				continue
			}
			suffix := strings.Trim(strings.TrimPrefix(u, rule.prefix), "/")
			if rule.valid(suffix) {
				if rule.render != nil {
					suffix = rule.render(suffix)
				}
				found[rule.column] = append(found[rule.column], suffix)
			}
			break
		}
	}

	ids := make(map[string]string, len(found))
	for column, values := range found {
		ids[column] = strings.Join(values, ";")
	}
	return ids
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
