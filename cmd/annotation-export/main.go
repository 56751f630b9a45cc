// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparc-curation/annotation-export/internal/annotation"
	"github.com/sparc-curation/annotation-export/internal/annotation/sources"
	"github.com/sparc-curation/annotation-export/internal/config"
	"github.com/sparc-curation/annotation-export/internal/logging"
)

var version = "dev"

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	envFile    string
	verbose    bool

	logger *zap.Logger
	cfg    *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "annotation-export",
		Short: "Export map annotations as curation rows",
		Long: `annotation-export downloads annotation records from the map annotator service,
extracts literature identifiers, annotated structures and provenance from each
record, writes a descriptive sentence per record and saves the rows that have
one to a CSV or TSV file for manual curation.

Settings come from defaults, an optional YAML config file, the environment
(ANNOTATION_* variables, optionally loaded from a .env file) and flags, in
increasing order of precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			logger, err := logging.New(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger

			if err := config.LoadDotEnv(a.envFile); err != nil {
				return err
			}
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger.Debug("configuration loaded", zap.Stringer("config", cfg))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "path to an env file with ANNOTATION_* variables")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd(a), newServeCmd(a), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// metadataClient builds the client for map server and resource lookups.
// These requests are sent without credentials.
func metadataClient(cfg *config.Config) *sources.Client {
	return sources.NewClient(sources.ClientConfig{
		Timeout:   cfg.Timeout(),
		RateLimit: cfg.RequestsPerSecond,
	})
}

// metadataOptions wires the map server and resource lookups.
func metadataOptions(cfg *config.Config, client *sources.Client, logger *zap.Logger) []annotation.Option {
	opts := []annotation.Option{
		annotation.WithLogger(logger),
		annotation.WithResourceFetcher(sources.NewResourceFetcher(client)),
	}
	if cfg.MapServerURL != "" {
		opts = append(opts, annotation.WithMapCatalog(sources.NewMapServer(client, cfg.MapServerURL)))
	}
	return opts
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
