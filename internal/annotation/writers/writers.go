// SPDX-License-Identifier: Apache-2.0

// Package writers renders export rows as delimited text.
package writers

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sparc-curation/annotation-export/internal/annotation"
)

// Format names an output format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatTSV Format = "tsv"
)

// delimiters is the format registry.
var delimiters = map[Format]rune{
	FormatCSV: ',',
	FormatTSV: '\t',
}

// Formats returns the registered format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(delimiters))
	for f := range delimiters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// ParseFormat resolves a format name. An empty name selects by the file
// extension of path, defaulting to CSV.
func ParseFormat(name, path string) (Format, error) {
	if name == "" {
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			return FormatTSV, nil
		}
		return FormatCSV, nil
	}
	f := Format(strings.ToLower(name))
	if _, ok := delimiters[f]; !ok {
		return "", fmt.Errorf("unsupported output format %q (supported: %s)", name, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Write renders the header and rows to w.
func Write(w io.Writer, format Format, rows []annotation.Row) error {
	delimiter, ok := delimiters[format]
	if !ok {
		return fmt.Errorf("unsupported output format %q", format)
	}

	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write(annotation.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row.Values()); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the rows to path, replacing any existing file.
func WriteFile(path string, format Format, rows []annotation.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	if err := Write(bw, format, rows); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
