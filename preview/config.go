package preview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig configures the preview window. Zero fields take the defaults
// listed on each.
type RunConfig struct {
	Title  string `yaml:"title"`  // "visor"
	Width  int    `yaml:"width"`  // 1280
	Height int    `yaml:"height"` // 720
	// TPS is the update rate. 60
	TPS int `yaml:"tps"`
	// FOV is the vertical field of view in degrees. 70
	FOV float32 `yaml:"fov"`
	// TurnSpeed is the head turn rate for the arrow keys in degrees per
	// second. 90
	TurnSpeed float32 `yaml:"turn_speed"`
	ShowFPS   bool    `yaml:"show_fps"`
	// Background is "#rrggbb" used when the scene has no globe. "#101018"
	Background    string `yaml:"background"`
	ScreenshotDir string `yaml:"screenshot_dir"` // "screenshots"

	// Fields below are read by programs that build on preview.

	// Scene is a markup document to load.
	Scene string `yaml:"scene"`
	// Watch reloads Scene when it changes on disk.
	Watch bool `yaml:"watch"`
	// MetricsAddr serves Prometheus metrics when non-empty, e.g. ":9100".
	MetricsAddr string `yaml:"metrics_addr"`
}

// WithDefaults returns c with zero fields filled in.
func (c RunConfig) WithDefaults() RunConfig {
	if c.Title == "" {
		c.Title = "visor"
	}
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.TPS <= 0 {
		c.TPS = 60
	}
	if c.FOV <= 0 {
		c.FOV = 70
	}
	if c.TurnSpeed <= 0 {
		c.TurnSpeed = 90
	}
	if c.Background == "" {
		c.Background = "#101018"
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
	return c
}

// LoadRunConfig reads a YAML run config. Unknown keys are an error.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("preview: load %s: %w", path, err)
	}
	var cfg RunConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return RunConfig{}, fmt.Errorf("preview: load %s: %w", path, err)
	}
	return cfg.WithDefaults(), nil
}
