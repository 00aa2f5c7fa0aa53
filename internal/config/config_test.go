package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-menaf-altintas/codescan/internal/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codescan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, pipeline.DefaultInstructions, cfg.Project.Instructions)
	assert.Empty(t, cfg.Store.Path)
	assert.Zero(t, cfg.Watch.Interval)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
scan:
  include_exts: [go, ".java"]
  include_tests: true
  module: order
  scan_area: backend
project:
  name: shop
output:
  format: text
store:
  path: /tmp/shop.db
log:
  level: debug
watch:
  interval: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"go", ".java"}, cfg.Scan.IncludeExts)
	assert.True(t, cfg.Scan.IncludeTests)
	assert.Equal(t, "order", cfg.Scan.Module)
	assert.Equal(t, "shop", cfg.Project.Name)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "/tmp/shop.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.Watch.Interval)
	// untouched keys keep their defaults
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, pipeline.DefaultSummary, cfg.Project.DefaultSummary)

	opts := cfg.PipelineOptions()
	assert.Equal(t, "shop", opts.ProjectName)
	assert.Equal(t, "backend", opts.Discover.ScanArea)
	assert.Equal(t, 5*time.Second, cfg.WatcherOptions().Interval)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "scan:\n  module: order\n")
	t.Setenv("CODESCAN_SCAN_MODULE", "menu")
	t.Setenv("CODESCAN_SCAN_INCLUDE_EXTS", "py, ts")
	t.Setenv("CODESCAN_LOG_FORMAT", "json")
	t.Setenv("CODESCAN_WATCH_INTERVAL", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "menu", cfg.Scan.Module)
	assert.Equal(t, []string{"py", "ts"}, cfg.Scan.IncludeExts)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Interval)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, "output:\n  format: xml\nlog:\n  level: loud\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
	assert.Contains(t, err.Error(), "log.level")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"negative interval", func(c *Config) { c.Watch.Interval = -time.Second }, "watch.interval"},
		{"empty output format", func(c *Config) { c.Output.Format = "" }, "output.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Scan.Module = "order"
	cfg.Watch.Interval = 3 * time.Second
	require.NoError(t, cfg.WriteFile(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "module: order")
	assert.Contains(t, string(data), "interval: 3s")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "order", loaded.Scan.Module)
	assert.Equal(t, 3*time.Second, loaded.Watch.Interval)

	err = cfg.WriteFile(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, cfg.WriteFile(path, true))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf, false)
	require.NoError(t, err)
	logger.Info("scan.start")
	logger.Warn("scan.slow", "path", "a.go")
	out := buf.String()
	assert.NotContains(t, out, "scan.start")
	assert.True(t, strings.HasPrefix(out, "{"), out)
	assert.Contains(t, out, `"msg":"scan.slow"`)

	buf.Reset()
	logger, err = LogConfig{Level: "error", Format: "text"}.NewLogger(&buf, true)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	_, err = LogConfig{Level: "chatty"}.NewLogger(&buf, false)
	require.Error(t, err)
}
