// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparc-curation/annotation-export/internal/tool"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the export_annotations tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := metadataClient(a.cfg)
			exporter := tool.NewExporter(a.cfg.PipelineConfig(), client, metadataOptions(a.cfg, client, a.logger)...)
			server := tool.NewServer(exporter, version)

			a.logger.Info("serving MCP on stdio", zap.String("version", version))
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
