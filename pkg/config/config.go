// Package config loads optimizer settings from svgo.config.yaml (or .yml,
// .json) and resolves them into an ordered plugin pipeline.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/svgo/pkg/stringifier"
	"gopkg.in/yaml.v3"
)

// FileNames are the config files searched for, in order of preference.
var FileNames = []string{"svgo.config.yaml", "svgo.config.yml", "svgo.config.json"}

// Config represents the structure of svgo.config.yaml.
type Config struct {
	// Path of the file being optimized; handed to plugins.
	Path           string          `yaml:"path,omitempty" json:"path,omitempty"`
	Multipass      bool            `yaml:"multipass,omitempty" json:"multipass,omitempty"`
	FloatPrecision *int            `yaml:"floatPrecision,omitempty" json:"floatPrecision,omitempty"`
	JS2SVG         StringifyConfig `yaml:"js2svg,omitempty" json:"js2svg,omitempty"`
	Plugins        []PluginConfig  `yaml:"plugins,omitempty" json:"plugins,omitempty"`
}

// StringifyConfig overrides output formatting. Unset fields keep the defaults.
type StringifyConfig struct {
	Pretty       *bool  `yaml:"pretty,omitempty" json:"pretty,omitempty"`
	Indent       *int   `yaml:"indent,omitempty" json:"indent,omitempty"`
	EOL          string `yaml:"eol,omitempty" json:"eol,omitempty"`
	FinalNewline *bool  `yaml:"finalNewline,omitempty" json:"finalNewline,omitempty"`
	UseShortTags *bool  `yaml:"useShortTags,omitempty" json:"useShortTags,omitempty"`
}

// Apply layers the set fields over opts.
func (s StringifyConfig) Apply(opts stringifier.Options) (stringifier.Options, error) {
	if s.Pretty != nil {
		opts.Pretty = *s.Pretty
	}
	if s.Indent != nil {
		opts.Indent = *s.Indent
	}
	switch stringifier.EOL(s.EOL) {
	case "":
	case stringifier.LF, stringifier.CRLF:
		opts.EOL = stringifier.EOL(s.EOL)
	default:
		return opts, fmt.Errorf("js2svg: unknown eol %q (want lf or crlf)", s.EOL)
	}
	if s.FinalNewline != nil {
		opts.FinalNewline = *s.FinalNewline
	}
	if s.UseShortTags != nil {
		opts.UseShortTags = *s.UseShortTags
	}
	return opts, nil
}

// Load reads a configuration file (YAML or JSON, chosen by extension).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return &cfg, nil
}

// Find looks for a config file in dir and its parents.
// It returns an empty path when none exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Discover loads the nearest config file above dir, or returns an empty Config.
func Discover(dir string) (*Config, string, error) {
	path, err := Find(dir)
	if err != nil || path == "" {
		return &Config{}, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}
