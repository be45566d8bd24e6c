// Package config loads the optional projfile.yaml tool configuration
// found next to a project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/geowerk/projfile/pkg/projfile"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ThumbnailConfig overrides the thumbnail output geometry.
type ThumbnailConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ServeConfig configures the HTTP surface.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// ToolConfig is the projfile.yaml document.
type ToolConfig struct {
	Thumbnail     ThumbnailConfig `yaml:"thumbnail"`
	Serve         ServeConfig     `yaml:"serve"`
	RenderTimeout string          `yaml:"render_timeout"`
}

// ConfigFileName is looked up in the project file's directory.
const ConfigFileName = "projfile.yaml"

// Load reads projfile.yaml from dir. Returns ErrConfigNotFound when the
// file is absent, which callers normally treat as "all defaults".
func Load(dir string) (*ToolConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ToolConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", configPath, err, projfile.ErrInvalidConfig)
	}
	return &cfg, nil
}

// Defaults returns a config with every field at its default value.
func Defaults() *ToolConfig {
	return &ToolConfig{
		Thumbnail: ThumbnailConfig{
			Width:  projfile.DefaultThumbnailWidth,
			Height: projfile.DefaultThumbnailHeight,
		},
		Serve: ServeConfig{Addr: "127.0.0.1:8090"},
	}
}

// RenderTimeoutOrDefault parses the configured render timeout, falling
// back to projfile.DefaultRenderTimeout when unset.
func (c *ToolConfig) RenderTimeoutOrDefault() (time.Duration, error) {
	if c.RenderTimeout == "" {
		return projfile.DefaultRenderTimeout, nil
	}
	d, err := time.ParseDuration(c.RenderTimeout)
	if err != nil {
		return 0, fmt.Errorf("render_timeout %q: %v: %w", c.RenderTimeout, err, projfile.ErrInvalidConfig)
	}
	if d <= 0 {
		return 0, fmt.Errorf("render_timeout must be positive: %w", projfile.ErrInvalidConfig)
	}
	return d, nil
}

// Merge overlays non-zero fields of other onto c and returns c.
func (c *ToolConfig) Merge(other *ToolConfig) *ToolConfig {
	if other == nil {
		return c
	}
	if other.Thumbnail.Width > 0 {
		c.Thumbnail.Width = other.Thumbnail.Width
	}
	if other.Thumbnail.Height > 0 {
		c.Thumbnail.Height = other.Thumbnail.Height
	}
	if other.Serve.Addr != "" {
		c.Serve.Addr = other.Serve.Addr
	}
	if other.RenderTimeout != "" {
		c.RenderTimeout = other.RenderTimeout
	}
	return c
}
