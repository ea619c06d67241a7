// Package config loads the render configuration of the command line tool.
//
// The file format is chosen by extension: .toml, or .yaml/.yml.
// Environment variables prefixed by OKSCENE_ override the file values.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/benoitkugler/okscene/paint"
	"github.com/benoitkugler/okscene/scene"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Render configures render passes, and the handling of unexpected input.
// Colors use the SVG notations; an empty background is transparent.
type Render struct {
	ShowSlices       bool    `toml:"slices_visible" yaml:"slices_visible"`
	OutlineMode      bool    `toml:"outline" yaml:"outline"`
	OutlineColorName string  `toml:"outline_color" yaml:"outline_color"`
	Background       string  `toml:"background" yaml:"background"`
	Scale            float64 `toml:"scale" yaml:"scale"`

	ErrorMode string `toml:"error_mode" yaml:"error_mode"` // ignore, warn or strict
	LogLevel  string `toml:"log_level" yaml:"log_level"`   // debug, info, warn or error

	outlineColor, background paint.Pattern
	errorMode                scene.ErrorMode
	logLevel                 slog.Level
}

var _ scene.Configuration = (*Render)(nil)

// Default returns the configuration used without file.
func Default() *Render {
	r := &Render{
		ShowSlices:       true,
		OutlineColorName: "black",
		Scale:            1,
		ErrorMode:        "warn",
		LogLevel:         "warn",
	}
	if err := r.validate(); err != nil {
		panic(err)
	}
	return r
}

// Load reads the configuration at path, on top of Default.
// An empty path only applies the environment.
func Load(path string) (*Render, error) {
	r := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".toml":
			err = toml.Unmarshal(data, r)
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, r)
		default:
			err = fmt.Errorf("unsupported config format %q", ext)
		}
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	r.loadFromEnv()
	if err := r.validate(); err != nil {
		if path == "" {
			return nil, fmt.Errorf("config from environment: %w", err)
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return r, nil
}

func (r *Render) loadFromEnv() {
	if v := os.Getenv("OKSCENE_SLICES_VISIBLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			r.ShowSlices = b
		}
	}
	if v := os.Getenv("OKSCENE_OUTLINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			r.OutlineMode = b
		}
	}
	if v := os.Getenv("OKSCENE_OUTLINE_COLOR"); v != "" {
		r.OutlineColorName = v
	}
	if v := os.Getenv("OKSCENE_BACKGROUND"); v != "" {
		r.Background = v
	}
	if v := os.Getenv("OKSCENE_SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			r.Scale = f
		}
	}
	if v := os.Getenv("OKSCENE_ERROR_MODE"); v != "" {
		r.ErrorMode = v
	}
	if v := os.Getenv("OKSCENE_LOG_LEVEL"); v != "" {
		r.LogLevel = v
	}
}

// validate parses the string fields.
func (r *Render) validate() error {
	var err error
	if r.outlineColor, err = paint.ParseSVGColor(r.OutlineColorName); err != nil {
		return fmt.Errorf("outline_color: %w", err)
	}
	if r.background, err = paint.ParseSVGColor(r.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if r.errorMode, err = scene.ParseErrorMode(r.ErrorMode); err != nil {
		return fmt.Errorf("error_mode: %w", err)
	}
	if err = r.logLevel.UnmarshalText([]byte(r.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if r.Scale <= 0 {
		return fmt.Errorf("scale: must be positive, got %g", r.Scale)
	}
	return nil
}

func (r *Render) SlicesVisible(*scene.PaintContext) bool { return r.ShowSlices }
func (r *Render) Outline(*scene.PaintContext) bool       { return r.OutlineMode }
func (r *Render) OutlineColor() paint.Pattern            { return r.outlineColor }

// BackgroundPattern returns the parsed background, nil for none.
func (r *Render) BackgroundPattern() paint.Pattern { return r.background }

// Mode returns the parsed error mode.
func (r *Render) Mode() scene.ErrorMode { return r.errorMode }

// Level returns the parsed log level.
func (r *Render) Level() slog.Level { return r.logLevel }
