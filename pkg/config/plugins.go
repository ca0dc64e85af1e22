package config

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/svgo/pkg/domain"
	"github.com/aretw0/svgo/pkg/plugins"
	"github.com/aretw0/svgo/pkg/registry"
	"gopkg.in/yaml.v3"
)

// PluginConfig is a plugin entry: either a bare name or {name, params}.
type PluginConfig struct {
	Name   string         `yaml:"name" json:"name"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

type pluginEntry struct {
	Name   string         `yaml:"name" json:"name"`
	Params map[string]any `yaml:"params" json:"params"`
}

// UnmarshalYAML accepts a scalar name or a mapping.
func (p *PluginConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Name = node.Value
		p.Params = nil
		return nil
	}
	var e pluginEntry
	if err := node.Decode(&e); err != nil {
		return err
	}
	if e.Name == "" {
		return fmt.Errorf("line %d: plugin entry without name", node.Line)
	}
	*p = PluginConfig(e)
	return nil
}

// UnmarshalJSON accepts a string name or an object.
func (p *PluginConfig) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		p.Name = name
		p.Params = nil
		return nil
	}
	var e pluginEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	if e.Name == "" {
		return fmt.Errorf("plugin entry without name")
	}
	*p = PluginConfig(e)
	return nil
}

// Step is a resolved pipeline entry.
type Step struct {
	Name   string
	Params map[string]any
}

// precisionAware plugins receive the top-level floatPrecision unless they set their own.
var precisionAware = map[string]bool{"cleanupNumericValues": true}

// Resolve expands presets and validates every plugin name against reg.
// An empty plugin list means preset-default.
func (c *Config) Resolve(reg *registry.Registry) ([]Step, error) {
	entries := c.Plugins
	if len(entries) == 0 {
		entries = []PluginConfig{{Name: plugins.PresetDefault}}
	}

	var steps []Step
	for _, e := range entries {
		if e.Name == plugins.PresetDefault {
			preset, err := expandPreset(e.Params, reg)
			if err != nil {
				return nil, err
			}
			steps = append(steps, preset...)
			continue
		}
		if _, ok := reg.Get(e.Name); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPlugin, e.Name)
		}
		steps = append(steps, Step{Name: e.Name, Params: copyParams(e.Params)})
	}

	if c.FloatPrecision != nil {
		for i, s := range steps {
			if !precisionAware[s.Name] {
				continue
			}
			if _, set := s.Params["floatPrecision"]; set {
				continue
			}
			if steps[i].Params == nil {
				steps[i].Params = map[string]any{}
			}
			steps[i].Params["floatPrecision"] = *c.FloatPrecision
		}
	}
	return steps, nil
}

// expandPreset honours params.overrides: false disables a plugin, a map replaces its params.
func expandPreset(params map[string]any, reg *registry.Registry) ([]Step, error) {
	overrides := map[string]any{}
	if raw, ok := params["overrides"]; ok {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s overrides must be a map", domain.ErrInvalidParams, plugins.PresetDefault)
		}
		overrides = m
	}

	known := map[string]bool{}
	for _, name := range plugins.DefaultPreset {
		known[name] = true
	}
	for name := range overrides {
		if !known[name] {
			return nil, fmt.Errorf("%w: %s is not part of %s", domain.ErrUnknownPlugin, name, plugins.PresetDefault)
		}
	}

	steps := make([]Step, 0, len(plugins.DefaultPreset))
	for _, name := range plugins.DefaultPreset {
		if _, ok := reg.Get(name); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPlugin, name)
		}
		step := Step{Name: name}
		switch o := overrides[name].(type) {
		case nil:
		case bool:
			if !o {
				continue
			}
		case map[string]any:
			step.Params = copyParams(o)
		default:
			return nil, fmt.Errorf("%w: override for %s must be false or a map", domain.ErrInvalidParams, name)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func copyParams(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
