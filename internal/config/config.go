// Package config loads codescan settings from defaults, an optional YAML
// file, .env files and CODESCAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/a-menaf-altintas/codescan/internal/discover"
	"github.com/a-menaf-altintas/codescan/internal/pipeline"
	"github.com/a-menaf-altintas/codescan/internal/watcher"
)

// EnvPrefix prefixes every environment override, e.g. CODESCAN_SCAN_MODULE.
const EnvPrefix = "CODESCAN"

// FileName is the project-local config file looked up in the working directory.
const FileName = ".codescan.yaml"

// Config holds all configuration settings
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan" yaml:"scan"`
	Project ProjectConfig `mapstructure:"project" yaml:"project"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
}

type ScanConfig struct {
	IncludeExts   []string `mapstructure:"include_exts" yaml:"include_exts"`
	IncludeTests  bool     `mapstructure:"include_tests" yaml:"include_tests"`
	Module        string   `mapstructure:"module" yaml:"module"`
	ScanArea      string   `mapstructure:"scan_area" yaml:"scan_area"` // "frontend", "backend" or empty
	NamesOnly     bool     `mapstructure:"names_only" yaml:"names_only"`
	IgnoreFile    string   `mapstructure:"ignore_file" yaml:"ignore_file"` // default <root>/.scanignore
	ExtraSkipDirs []string `mapstructure:"extra_skip_dirs" yaml:"extra_skip_dirs"`
}

type ProjectConfig struct {
	Name           string `mapstructure:"name" yaml:"name"`
	DefaultSummary string `mapstructure:"default_summary" yaml:"default_summary"`
	Instructions   string `mapstructure:"instructions" yaml:"instructions"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // "json" or "text"
	Path   string `mapstructure:"path" yaml:"path"`
}

type StoreConfig struct {
	// Path of the SQLite chunk store; empty disables persistence.
	Path string `mapstructure:"path" yaml:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

type WatchConfig struct {
	// Interval fixes the poll interval; zero adapts it to the tree size.
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			IncludeExts:   []string{},
			ExtraSkipDirs: []string{},
		},
		Project: ProjectConfig{
			DefaultSummary: pipeline.DefaultSummary,
			Instructions:   pipeline.DefaultInstructions,
		},
		Output: OutputConfig{Format: "json"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the effective configuration. An explicit path must exist;
// without one the first of ./.codescan.yaml and ~/.codescan/config.yaml is
// used when present.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		slog.Debug("config.loaded", "path", path)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Scan.IncludeExts = splitList(cfg.Scan.IncludeExts)
	cfg.Scan.ExtraSkipDirs = splitList(cfg.Scan.ExtraSkipDirs)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every leaf key so environment overrides reach
// Unmarshal even when no config file sets the key.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("scan.include_exts", cfg.Scan.IncludeExts)
	v.SetDefault("scan.include_tests", cfg.Scan.IncludeTests)
	v.SetDefault("scan.module", cfg.Scan.Module)
	v.SetDefault("scan.scan_area", cfg.Scan.ScanArea)
	v.SetDefault("scan.names_only", cfg.Scan.NamesOnly)
	v.SetDefault("scan.ignore_file", cfg.Scan.IgnoreFile)
	v.SetDefault("scan.extra_skip_dirs", cfg.Scan.ExtraSkipDirs)
	v.SetDefault("project.name", cfg.Project.Name)
	v.SetDefault("project.default_summary", cfg.Project.DefaultSummary)
	v.SetDefault("project.instructions", cfg.Project.Instructions)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.path", cfg.Output.Path)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("watch.interval", cfg.Watch.Interval)
}

func findConfigFile() string {
	candidates := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".codescan", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// loadEnvFiles loads .env files in order of precedence. godotenv never
// overrides variables that are already set, so the first file wins.
func loadEnvFiles() {
	envFiles := []string{".env.local", ".env"}
	if home, err := os.UserHomeDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(home, ".codescan", ".env"))
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			slog.Warn("config.env.err", "file", file, "err", err)
		}
	}
}

// splitList flattens comma-separated entries, which is how list values
// arrive from the environment.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate rejects values no command could act on.
func (c *Config) Validate() error {
	var errs []error
	switch c.Output.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("output.format %q: want json or text", c.Output.Format))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	if c.Watch.Interval < 0 {
		errs = append(errs, fmt.Errorf("watch.interval %s: must not be negative", c.Watch.Interval))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DiscoverOptions maps the scan section onto walker options.
func (c *Config) DiscoverOptions() discover.Options {
	return discover.Options{
		IgnoreFile:    c.Scan.IgnoreFile,
		IncludeExts:   c.Scan.IncludeExts,
		IncludeTests:  c.Scan.IncludeTests,
		Module:        c.Scan.Module,
		ScanArea:      c.Scan.ScanArea,
		ExtraSkipDirs: c.Scan.ExtraSkipDirs,
	}
}

// PipelineOptions maps the scan and project sections onto scan options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Discover:       c.DiscoverOptions(),
		ProjectName:    c.Project.Name,
		DefaultSummary: c.Project.DefaultSummary,
		Instructions:   c.Project.Instructions,
		NamesOnly:      c.Scan.NamesOnly,
	}
}

// WatcherOptions maps the scan and watch sections onto watcher options.
func (c *Config) WatcherOptions() watcher.Options {
	return watcher.Options{Discover: c.DiscoverOptions(), Interval: c.Watch.Interval}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// WriteFile writes the configuration to path. An existing file is only
// replaced when overwrite is set.
func (c *Config) WriteFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q: want debug, info, warn or error", s)
	}
	return level, nil
}

// NewLogger builds the process logger. verbose forces debug level.
func (l LogConfig) NewLogger(w io.Writer, verbose bool) (*slog.Logger, error) {
	level, err := ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
