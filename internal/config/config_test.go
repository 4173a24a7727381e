package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
app:
  env: prod
  log_level: warn
  http_addr: ":9000"
lean:
  launcher_path: /lean/bin
  base_config_path: /lean/config.json
  storage_root: /var/backtests
  algorithm_root: /srv/algorithms
  data_folder: /lean/data
catalog:
  path: /etc/controlroom/algorithms.json
  watch: true
jobs:
  max_concurrent: 4
  render_equity_chart: true
market:
  sample_data_path: /srv/spy.json
`))
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, ":9000", cfg.App.HTTPAddr)
	assert.Equal(t, "/lean/bin", cfg.Lean.LauncherPath)
	assert.Equal(t, "/var/backtests", cfg.Lean.StorageRoot)
	assert.True(t, cfg.Catalog.Watch)
	assert.Equal(t, 4, cfg.Jobs.MaxConcurrent)
	assert.True(t, cfg.Jobs.RenderEquityChart)
	assert.Equal(t, "/srv/spy.json", cfg.Market.SampleDataPath)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
app:
  env: dev
`))
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.App.HTTPAddr)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 2, cfg.Jobs.MaxConcurrent)
	assert.Equal(t, "configs/algorithms.json", cfg.Catalog.Path)
	assert.NotEmpty(t, cfg.Lean.LauncherPath)
	assert.NotEmpty(t, cfg.Lean.StorageRoot)
	assert.False(t, cfg.Catalog.Watch)
}

func TestLoadWeaklyTypedValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
jobs:
  max_concurrent: "3"
`))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Jobs.MaxConcurrent)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
