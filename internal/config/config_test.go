// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparc-curation/annotation-export/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "/flatmap/", cfg.ResolverConfig().ResourceSeparator)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
download_url: https://annotator.example.org/download/
map_server_url: https://maps.example.org/flatmap/v4/
batch_name: batch-7
output: out.tsv
format: tsv
resolve_resource_taxon: true
annotation_ids: ["12", "14"]
limit: 50
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://annotator.example.org/download/", cfg.DownloadURL)
	assert.Equal(t, "batch-7", cfg.BatchName)
	assert.Equal(t, "tsv", cfg.Format)
	assert.True(t, cfg.ResolveResourceTaxon)
	assert.Equal(t, []string{"12", "14"}, cfg.AnnotationIDs)

	pc := cfg.PipelineConfig()
	assert.Equal(t, 50, pc.Limit)
	assert.Equal(t, "https://maps.example.org/flatmap/v4/", pc.Resolver.MapServerURL)
	assert.True(t, pc.Resolver.ResolveResourceTaxon)
	// Unset keys keep their defaults.
	assert.Equal(t, config.Default().AnnotationViewURL, pc.Resolver.AnnotationViewURL)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "batch_name: from-file\n")
	t.Setenv(config.EnvToken, "secret-token")
	t.Setenv(config.EnvBatchName, "from-env")
	t.Setenv(config.EnvMapServerURL, "")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Token)
	assert.Equal(t, "from-env", cfg.BatchName)
	assert.Empty(t, cfg.MapServerURL, "an empty map server disables map lookups")
	assert.NotContains(t, cfg.String(), "secret-token")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown format", content: "format: xlsx\n"},
		{name: "non http download url", content: "download_url: ftp://annotator.example.org\n"},
		{name: "negative limit", content: "limit: -1\n"},
		{name: "empty batch name", content: "batch_name: \"\"\n"},
		{name: "zero timeout", content: "timeout_seconds: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := config.Load(writeConfig(t, "limit: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadDotEnv(t *testing.T) {
	const key = "ANNOTATION_DOTENV_TEST"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600))

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}
