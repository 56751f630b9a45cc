// SPDX-License-Identifier: Apache-2.0

// Package config loads export settings from defaults, an optional YAML file
// and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/sparc-curation/annotation-export/internal/annotation"
)

// Environment variables read by Load.
const (
	EnvToken        = "ANNOTATION_TOKEN"
	EnvDownloadURL  = "ANNOTATION_DOWNLOAD_URL"
	EnvMapServerURL = "ANNOTATION_MAP_SERVER_URL"
	EnvBatchName    = "ANNOTATION_BATCH_NAME"
	EnvOutput       = "ANNOTATION_OUTPUT"
)

// Config holds everything a run needs.
type Config struct {
	DownloadURL          string   `yaml:"download_url" json:"download_url"`
	MapServerURL         string   `yaml:"map_server_url" json:"map_server_url"`
	ResourceSeparator    string   `yaml:"resource_separator" json:"resource_separator"`
	AnnotationViewURL    string   `yaml:"annotation_view_url" json:"annotation_view_url"`
	BatchName            string   `yaml:"batch_name" json:"batch_name"`
	Output               string   `yaml:"output" json:"output"`
	Format               string   `yaml:"format" json:"format,omitempty"`
	ResolveResourceTaxon bool     `yaml:"resolve_resource_taxon" json:"resolve_resource_taxon"`
	AnnotationIDs        []string `yaml:"annotation_ids" json:"annotation_ids,omitempty"`
	Limit                int      `yaml:"limit" json:"limit"`
	TimeoutSeconds       int      `yaml:"timeout_seconds" json:"timeout_seconds"`
	RequestsPerSecond    float64  `yaml:"requests_per_second" json:"requests_per_second"`

	// Token authenticates the download request. It is only read from the
	// environment.
	Token string `yaml:"-" json:"-"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		DownloadURL:       "https://mapcore-demo.org/devel/flatmap/v4/annotator/download/",
		MapServerURL:      "https://mapcore-demo.org/devel/flatmap/v4/",
		ResourceSeparator: "/flatmap/",
		AnnotationViewURL: "https://mapcore-demo.org/devel/flatmap/v4/annotator/annotations/{id}",
		BatchName:         "annotations",
		Output:            "annotations.csv",
		TimeoutSeconds:    30,
		RequestsPerSecond: 10,
	}
}

// LoadDotEnv loads variables from an env file into the process environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (if not
// empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvDownloadURL); v != "" {
		c.DownloadURL = v
	}
	if v, ok := os.LookupEnv(EnvMapServerURL); ok {
		c.MapServerURL = v
	}
	if v := os.Getenv(EnvBatchName); v != "" {
		c.BatchName = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolverConfig returns the resolver settings.
func (c *Config) ResolverConfig() annotation.ResolverConfig {
	return annotation.ResolverConfig{
		MapServerURL:         c.MapServerURL,
		ResourceSeparator:    c.ResourceSeparator,
		AnnotationViewURL:    c.AnnotationViewURL,
		ResolveResourceTaxon: c.ResolveResourceTaxon,
	}
}

// PipelineConfig returns the pipeline settings.
func (c *Config) PipelineConfig() annotation.PipelineConfig {
	return annotation.PipelineConfig{
		BatchName:     c.BatchName,
		Resolver:      c.ResolverConfig(),
		AnnotationIDs: c.AnnotationIDs,
		Limit:         c.Limit,
	}
}

func (c *Config) String() string {
	token := "unset"
	if c.Token != "" {
		token = "set"
	}
	return fmt.Sprintf("download=%s mapserver=%s batch=%s output=%s token=%s limit=%d",
		c.DownloadURL, c.MapServerURL, c.BatchName, c.Output, token, c.Limit)
}
