// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"context"

	"github.com/sparc-curation/annotation-export/internal/annotation"
)

// ResourceFetcher reads metadata documents served at resource URLs.
type ResourceFetcher struct {
	client *Client
}

func NewResourceFetcher(client *Client) *ResourceFetcher {
	return &ResourceFetcher{client: client}
}

// ResourceTaxon returns the document's taxon, or "" when it has none.
func (f *ResourceFetcher) ResourceTaxon(ctx context.Context, resourceURL string) (string, error) {
	var doc annotation.Entry
	if err := f.client.GetJSON(ctx, resourceURL, &doc); err != nil {
		return "", err
	}
	taxon, _ := doc.String("taxon")
	return taxon, nil
}
