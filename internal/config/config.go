// Package config loads starchart settings from TOML files and STARCHART_*
// environment variables on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/starchart/internal/assign"
	"github.com/llehouerou/starchart/internal/chart"
	"github.com/llehouerou/starchart/internal/classify"
	"github.com/llehouerou/starchart/internal/guard"
	"github.com/llehouerou/starchart/internal/lastfm"
	"github.com/llehouerou/starchart/internal/logging"
	"github.com/llehouerou/starchart/internal/music"
	"github.com/llehouerou/starchart/internal/source"
)

// PathEnvVar names an extra config file loaded after the default paths.
const PathEnvVar = "STARCHART_CONFIG"

const envPrefix = "STARCHART_"

type Config struct {
	Database      string `koanf:"database"`       // empty means the XDG data dir
	TaxonomyFile  string `koanf:"taxonomy_file"`  // empty means the built-in taxonomy
	PositionsFile string `koanf:"positions_file"` // empty means the built-in positions

	Log     logging.Config `koanf:"log"`
	Lastfm  LastfmConfig   `koanf:"lastfm"`
	Chart   ChartConfig    `koanf:"chart"`
	Source  SourceConfig   `koanf:"source"`
	Metrics MetricsConfig  `koanf:"metrics"`
}

// LastfmConfig holds Last.fm API credentials and the listeners to chart.
type LastfmConfig struct {
	APIKey    string   `koanf:"api_key"`
	APISecret string   `koanf:"api_secret"`
	Username  string   `koanf:"username"`  // default listener
	Listeners []string `koanf:"listeners"` // batch refresh list

	CallbackAddr string `koanf:"callback_addr"` // local auth callback server
}

// ChartConfig tunes the chart pipeline.
type ChartConfig struct {
	Thresholds  guard.Thresholds `koanf:"thresholds"`
	Weights     assign.Weights   `koanf:"weights"`
	BlendWeight float64          `koanf:"blend_weight"` // 0-1, default 0.7
	Workers     int              `koanf:"workers"`      // concurrent listeners in batch refresh
}

// SourceConfig tunes fetching from Last.fm.
type SourceConfig struct {
	Fetch        source.Config `koanf:"fetch"`
	Limits       lastfm.Limits `koanf:"limits"`
	CacheTTLDays int           `koanf:"cache_ttl_days"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `koanf:"addr"` // e.g. ":9090", empty disables
}

func defaultConfig() Config {
	return Config{
		Log:    logging.Config{Level: "info", Format: "console"},
		Lastfm: LastfmConfig{CallbackAddr: lastfm.DefaultCallbackAddr},
		Chart: ChartConfig{
			Thresholds:  guard.DefaultThresholds(),
			Weights:     assign.DefaultWeights(),
			BlendWeight: chart.DefaultOptions().BlendWeight,
			Workers:     4,
		},
		Source: SourceConfig{
			Fetch:        source.DefaultConfig(),
			Limits:       lastfm.DefaultLimits(),
			CacheTTLDays: 7,
		},
	}
}

// envKeys maps STARCHART_* suffixes to config paths.
var envKeys = map[string]string{
	"database":              "database",
	"taxonomy_file":         "taxonomy_file",
	"positions_file":        "positions_file",
	"log_level":             "log.level",
	"log_format":            "log.format",
	"lastfm_api_key":        "lastfm.api_key",
	"lastfm_api_secret":     "lastfm.api_secret",
	"lastfm_username":       "lastfm.username",
	"lastfm_listeners":      "lastfm.listeners",
	"lastfm_callback_addr":  "lastfm.callback_addr",
	"chart_workers":         "chart.workers",
	"chart_blend_weight":    "chart.blend_weight",
	"source_cache_ttl_days": "source.cache_ttl_days",
	"source_kind":           "source.fetch.kind",
	"metrics_addr":          "metrics.addr",
}

// sliceKeys are read from the environment as comma separated lists.
var sliceKeys = []string{"lastfm.listeners"}

func envTransform(key string) string {
	return envKeys[strings.ToLower(strings.TrimPrefix(key, envPrefix))]
}

// Load reads the default config paths, then STARCHART_CONFIG, then the
// environment.
func Load() (*Config, error) {
	paths := getConfigPaths()
	if p := os.Getenv(PathEnvVar); p != "" {
		paths = append(paths, p)
	}
	return LoadFrom(paths...)
}

// LoadFrom layers defaults, the existing files among paths (last wins) and
// the environment.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	for _, key := range sliceKeys {
		if s, ok := k.Get(key).(string); ok {
			if err := k.Set(key, splitList(s)); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Database = expandPath(cfg.Database)
	cfg.TaxonomyFile = expandPath(cfg.TaxonomyFile)
	cfg.PositionsFile = expandPath(cfg.PositionsFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/starchart/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "starchart", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	for _, w := range append(append([]music.Window{}, c.Source.Fetch.Primary...), c.Source.Fetch.Secondary...) {
		if !w.Valid() {
			errs = append(errs, fmt.Errorf("source.fetch: unknown window %q", w))
		}
	}
	if w := c.Source.Fetch.TrackWindow; w != "" && !w.Valid() {
		errs = append(errs, fmt.Errorf("source.fetch.track_window: unknown window %q", w))
	}
	if _, err := classify.ParseSource(c.Source.Fetch.Kind); err != nil {
		errs = append(errs, fmt.Errorf("source.fetch.kind: %w", err))
	}
	if c.Chart.BlendWeight < 0 || c.Chart.BlendWeight > 1 {
		errs = append(errs, fmt.Errorf("chart.blend_weight must be within [0,1], got %v", c.Chart.BlendWeight))
	}
	t := c.Chart.Thresholds
	if t.MinArtists < 0 || t.MinTracks < 0 || t.MinPooled < 0 || t.MinGenres < 0 || t.MinPositions < 0 {
		errs = append(errs, errors.New("chart.thresholds must not be negative"))
	}
	if t.MinPositions > 11 {
		errs = append(errs, fmt.Errorf("chart.thresholds.min_positions %d exceeds the 11 positions", t.MinPositions))
	}
	return errors.Join(errs...)
}

// HasLastfmConfig returns true if Last.fm API credentials are configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// ChartOptions returns the pipeline options with defaults applied.
func (c *Config) ChartOptions() chart.Options {
	opts := chart.DefaultOptions()
	if c.Chart.Thresholds != (guard.Thresholds{}) {
		opts.Thresholds = c.Chart.Thresholds
	}
	opts.Weights = c.Chart.Weights.WithDefaults()
	opts.BlendWeight = c.Chart.BlendWeight
	return opts
}

// GetChartWorkers returns the batch refresh concurrency.
func (c *Config) GetChartWorkers() int {
	if c.Chart.Workers <= 0 {
		return 4
	}
	return c.Chart.Workers
}

// GetCacheTTLDays returns the tag cache TTL with the default applied.
func (c *Config) GetCacheTTLDays() int {
	if c.Source.CacheTTLDays <= 0 {
		return 7
	}
	return c.Source.CacheTTLDays
}

// ListenersOrDefault returns the configured listeners, falling back to the
// configured username.
func (c *Config) ListenersOrDefault() []string {
	if len(c.Lastfm.Listeners) > 0 {
		return c.Lastfm.Listeners
	}
	if c.Lastfm.Username != "" {
		return []string{c.Lastfm.Username}
	}
	return nil
}
