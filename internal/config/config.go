// Package config loads hostmap.yml through viper.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/style"
	"github.com/CDTO-DENKART/app-visualizer/internal/topology"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory.
const FileName = "hostmap"

type Config struct {
	Output      string            `mapstructure:"output"`
	Theme       string            `mapstructure:"theme"`
	Locale      string            `mapstructure:"locale"`
	HostIP      string            `mapstructure:"host_ip"` // used when no record carries one
	Filter      topology.Filter   `mapstructure:"filter"`
	Refresh     RefreshConfig     `mapstructure:"refresh"`
	Render      RenderConfig      `mapstructure:"render"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Server      ServerConfig      `mapstructure:"server"`
	RawSources  map[string]any    `mapstructure:"-"`
}

type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type RenderConfig struct {
	DetailLevel string `mapstructure:"detail_level"` // minimal, standard, detailed
	Direction   string `mapstructure:"direction"`
	AutoRender  bool   `mapstructure:"auto_render"`
	Format      string `mapstructure:"format"` // svg, png
}

type DiagnosticsConfig struct {
	RulesFile string `mapstructure:"rules_file"`
	// RunnerURL defaults to sources.api.url.
	RunnerURL   string        `mapstructure:"runner_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SuccessHold time.Duration `mapstructure:"success_hold"`
	ErrorHold   time.Duration `mapstructure:"error_hold"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// RefreshRate is how many manual refreshes per second POST /api/refresh allows.
	RefreshRate  float64 `mapstructure:"refresh_rate"`
	RefreshBurst int     `mapstructure:"refresh_burst"`
}

var (
	detailLevels = []string{"minimal", "standard", "detailed"}
	formats      = []string{"svg", "png"}
	directions   = []string{"down", "right", "up", "left"}
)

// Default returns the configuration used when hostmap.yml sets nothing.
func Default() *Config {
	return &Config{
		Output: "hostmap.d2",
		Theme:  "default",
		Locale: "en",
		HostIP: "127.0.0.1",
		Filter: topology.DefaultFilter(),
		Refresh: RefreshConfig{
			Interval: 30 * time.Second,
		},
		Render: RenderConfig{
			DetailLevel: "standard",
			Direction:   "down",
			Format:      "svg",
		},
		Diagnostics: DiagnosticsConfig{
			Timeout:     30 * time.Second,
			SuccessHold: 3 * time.Second,
			ErrorHold:   2 * time.Second,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8090",
			RefreshRate:  0.2,
			RefreshBurst: 1,
		},
	}
}

// Load reads the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals v over the defaults.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// Populate RawSources for the registry-based orchestrator
	cfg.RawSources = v.GetStringMap("sources")

	return cfg, nil
}

// RunnerURL is the test-runner backend address.
func (c *Config) RunnerURL() string {
	if c.Diagnostics.RunnerURL != "" {
		return c.Diagnostics.RunnerURL
	}
	if api, ok := c.RawSources["api"].(map[string]any); ok {
		if u, ok := api["url"].(string); ok {
			return u
		}
	}
	return ""
}

// Problem is a config value outside its allowed set.
type Problem struct {
	Field   string
	Message string
	Allowed []string
}

// Check reports settings outside the values the renderer, themes and
// locales understand.
func (c *Config) Check() []Problem {
	var out []Problem
	check := func(field, value string, allowed []string) {
		if !slices.Contains(allowed, value) {
			out = append(out, Problem{
				Field:   field,
				Message: fmt.Sprintf("unknown value %q", value),
				Allowed: allowed,
			})
		}
	}
	check("theme", c.Theme, style.ThemeNames())
	check("locale", c.Locale, locale.Codes())
	check("render.detail_level", c.Render.DetailLevel, detailLevels)
	check("render.direction", c.Render.Direction, directions)
	check("render.format", c.Render.Format, formats)
	if c.Refresh.Interval < time.Second {
		out = append(out, Problem{Field: "refresh.interval", Message: fmt.Sprintf("%s is below one second", c.Refresh.Interval)})
	}
	return out
}
