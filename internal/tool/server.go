// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server exposing the exporter's tools.
func NewServer(exporter *Exporter, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "annotation-export",
		Version: version,
	}, nil)
	mcp.AddTool(server, MetadataExportAnnotations, exporter.ExportAnnotations)
	return server
}
