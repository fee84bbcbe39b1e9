package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Fichier_erp.csv", cfg.Sources.Inventory)
	assert.Equal(t, "Fichier_web.csv", cfg.Sources.Web)
	assert.Equal(t, "fichier_liaison.csv", cfg.Sources.Links)
	assert.Equal(t, ";", cfg.Sources.Delimiter)
	assert.Equal(t, "latin1", cfg.Sources.Encoding)
	assert.Equal(t, "inner", cfg.Pipeline.JoinKind)
	assert.InDelta(t, 2.0, cfg.Pipeline.PremiumThreshold, 0.001)
	assert.InDelta(t, 3.0, cfg.Pipeline.OutlierThreshold, 0.001)
	assert.Equal(t, 5, cfg.Pipeline.OutlierPreview)
	assert.Equal(t, "sample", cfg.Pipeline.StdDev)
	assert.Equal(t, 714, cfg.Quality.ExpectedRows)
	assert.InDelta(t, 70568.60, cfg.Quality.ExpectedRevenue, 0.001)
	assert.InDelta(t, 0.01, cfg.Quality.RevenueTolerance, 0.0001)
	assert.Equal(t, "reports", cfg.Report.OutputDir)
	assert.Equal(t, []string{"xlsx", "csv"}, cfg.Report.Formats)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "winerecon.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
sources:
  inventory: data/erp.xlsx
pipeline:
  join_kind: left
  premium_threshold: 2.5
quality:
  expected_rows: 825
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/erp.xlsx", cfg.Sources.Inventory)
	assert.Equal(t, "left", cfg.Pipeline.JoinKind)
	assert.InDelta(t, 2.5, cfg.Pipeline.PremiumThreshold, 0.001)
	assert.Equal(t, 825, cfg.Quality.ExpectedRows)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.InDelta(t, 3.0, cfg.Pipeline.OutlierThreshold, 0.001)
	assert.Equal(t, "Fichier_web.csv", cfg.Sources.Web)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
pipeline:
  join_kind: left
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("WINERECON_PIPELINE_JOIN_KIND", "inner")
	t.Setenv("WINERECON_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "inner", cfg.Pipeline.JoinKind)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("WINERECON_QUALITY_EXPECTED_REVENUE", "12345.67")
	t.Setenv("WINERECON_STORE_DRIVER", "none")

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 12345.67, cfg.Quality.ExpectedRevenue, 0.001)
	assert.Equal(t, "none", cfg.Store.Driver)
}

func TestLoadRejectsInvalidJoinKind(t *testing.T) {
	chdirTemp(t)
	t.Setenv("WINERECON_PIPELINE_JOIN_KIND", "outer")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "join_kind")
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("pipeline: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func validConfig() *Config {
	return &Config{
		Sources:  SourcesConfig{Delimiter: ";", Encoding: "latin1"},
		Pipeline: PipelineConfig{JoinKind: "inner", PremiumThreshold: 2, OutlierThreshold: 3, OutlierPreview: 5, StdDev: "sample"},
		Quality:  QualityConfig{ExpectedRows: 714, ExpectedRevenue: 70568.60, RevenueTolerance: 0.01},
		Report:   ReportConfig{OutputDir: "reports", Formats: []string{"xlsx", "csv"}},
		Store:    StoreConfig{Driver: "sqlite"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "left join", mutate: func(c *Config) { c.Pipeline.JoinKind = "left" }},
		{name: "population stddev", mutate: func(c *Config) { c.Pipeline.StdDev = "population" }},
		{name: "bad join kind", mutate: func(c *Config) { c.Pipeline.JoinKind = "cross" }, wantErr: "join_kind"},
		{name: "bad stddev", mutate: func(c *Config) { c.Pipeline.StdDev = "mad" }, wantErr: "stddev"},
		{name: "join kind from parser", mutate: func(c *Config) { c.Pipeline.JoinKind = "outer" }, wantErr: "reconcile: unknown join kind"},
		{name: "stddev from parser", mutate: func(c *Config) { c.Pipeline.StdDev = "MAD" }, wantErr: "metric: unknown stddev mode"},
		{name: "zero premium threshold", mutate: func(c *Config) { c.Pipeline.PremiumThreshold = 0 }, wantErr: "thresholds"},
		{name: "negative preview", mutate: func(c *Config) { c.Pipeline.OutlierPreview = -1 }, wantErr: "outlier_preview"},
		{name: "negative rows", mutate: func(c *Config) { c.Quality.ExpectedRows = -1 }, wantErr: "expected_rows"},
		{name: "negative tolerance", mutate: func(c *Config) { c.Quality.RevenueTolerance = -0.01 }, wantErr: "revenue_tolerance"},
		{name: "multi-char delimiter", mutate: func(c *Config) { c.Sources.Delimiter = ";;" }, wantErr: "delimiter"},
		{name: "bad format", mutate: func(c *Config) { c.Report.Formats = []string{"pdf"} }, wantErr: "report format"},
		{name: "format from writer", mutate: func(c *Config) { c.Report.Formats = []string{"csv", "ods"} }, wantErr: "report: unknown format"},
		{name: "bad driver", mutate: func(c *Config) { c.Store.Driver = "mongo" }, wantErr: "store.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDelimiterRune(t *testing.T) {
	assert.Equal(t, ';', SourcesConfig{Delimiter: ";"}.DelimiterRune())
	assert.Equal(t, '|', SourcesConfig{Delimiter: "|"}.DelimiterRune())
	assert.Equal(t, ';', SourcesConfig{}.DelimiterRune())
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
