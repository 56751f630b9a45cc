// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"context"

	"github.com/sparc-curation/annotation-export/internal/annotation"
)

// MapServer reads the map listing published at the root of a flatmap server.
type MapServer struct {
	client *Client
	url    string
}

func NewMapServer(client *Client, url string) *MapServer {
	return &MapServer{client: client, url: url}
}

// Maps returns every map descriptor that carries a uuid. The sckan value is
// read either as a plain string or from its knowledge-source field.
func (m *MapServer) Maps(ctx context.Context) ([]annotation.MapDescriptor, error) {
	var listing []annotation.Entry
	if err := m.client.GetJSON(ctx, m.url, &listing); err != nil {
		return nil, err
	}

	maps := make([]annotation.MapDescriptor, 0, len(listing))
	for _, item := range listing {
		id, ok := item.String("uuid")
		if !ok {
			continue
		}
		d := annotation.MapDescriptor{UUID: id}
		d.Taxon, _ = item.String("taxon")
		d.Name, _ = item.String("name")
		d.Describes, _ = item.String("describes")
		if sckan, ok := item.String("sckan"); ok {
			d.Sckan = sckan
		} else {
			d.Sckan, _ = item.String("sckan", "knowledge-source")
		}
		maps = append(maps, d)
	}
	return maps, nil
}
