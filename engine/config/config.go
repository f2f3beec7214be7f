// Package config loads the settings shared by the window, renderer and engine from a
// TOML or YAML file. Every field is optional; missing values fall back to Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a config file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// ErrUnknownFormat is returned by Load for file extensions other than .toml, .yaml and .yml.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Config holds the renderer, window and engine settings.
type Config struct {
	// Generation is the shading-language generation: "core", "legacy", or empty to
	// detect it from the context version.
	Generation string `toml:"generation" yaml:"generation"`

	// CheckErrors overrides the build default for post-operation GL error checks.
	// Nil keeps the default (on, off under the oxyrelease build tag).
	CheckErrors *bool `toml:"check_errors" yaml:"check_errors"`

	// FragColorName is the fragment output identifier used by generated shaders.
	FragColorName string `toml:"frag_color" yaml:"frag_color"`

	// Profiling enables periodic frame statistics in the log.
	Profiling bool `toml:"profiling" yaml:"profiling"`

	Window WindowConfig `toml:"window" yaml:"window"`
}

// WindowConfig holds the window settings.
type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	VSync  bool   `toml:"vsync" yaml:"vsync"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		FragColorName: "fragColor",
		Window: WindowConfig{
			Title:  "oxy-gl",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
	}
}

// Load reads a config file, choosing the decoder from the file extension.
//
// Parameters:
//   - path: path to a .toml, .yaml or .yml file
//
// Returns:
//   - Config: the decoded configuration with defaults filled in
//   - error: an error if the file cannot be read or decoded
func Load(path string) (Config, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		format = FormatTOML
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	return Parse(data, format)
}

// Parse decodes config data in the given format.
//
// Parameters:
//   - data: the encoded configuration
//   - format: FormatTOML or FormatYAML
//
// Returns:
//   - Config: the decoded configuration with defaults filled in
//   - error: an error if decoding fails
func Parse(data []byte, format Format) (Config, error) {
	var c Config
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &c)
	case FormatYAML:
		err = yaml.Unmarshal(data, &c)
	default:
		return Config{}, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to decode: %w", err)
	}
	return c.withDefaults(), nil
}

// withDefaults fills zero fields from Default. VSync and Profiling are kept as decoded.
func (c Config) withDefaults() Config {
	d := Default()
	c.FragColorName = common.Coalesce(c.FragColorName, d.FragColorName)
	c.Window.Title = common.Coalesce(c.Window.Title, d.Window.Title)
	c.Window.Width = common.Coalesce(c.Window.Width, d.Window.Width)
	c.Window.Height = common.Coalesce(c.Window.Height, d.Window.Height)
	return c
}
