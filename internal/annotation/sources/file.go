// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/sparc-curation/annotation-export/internal/annotation"
)

// FileSource reads a saved annotation dump. JSON and YAML are both accepted.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file"
}

func (s *FileSource) Fetch(_ context.Context) ([]annotation.Entry, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return DecodeEntries(content)
}

// DecodeEntries parses a JSON or YAML list of entries.
func DecodeEntries(content []byte) ([]annotation.Entry, error) {
	var entries []annotation.Entry
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
	}
	return entries, nil
}
