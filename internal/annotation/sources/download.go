// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"context"

	"github.com/sparc-curation/annotation-export/internal/annotation"
)

// DownloadSource fetches the full annotation dump from the annotator service.
type DownloadSource struct {
	client *Client
	url    string
}

// NewDownloadSource creates a DownloadSource. The client carries the
// service credentials.
func NewDownloadSource(client *Client, url string) *DownloadSource {
	return &DownloadSource{client: client, url: url}
}

func (s *DownloadSource) Name() string {
	return "download"
}

// Fetch returns the entries in the order the service lists them.
func (s *DownloadSource) Fetch(ctx context.Context) ([]annotation.Entry, error) {
	var entries []annotation.Entry
	if err := s.client.GetJSON(ctx, s.url, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
