package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/svgo/pkg/domain"
	"github.com/aretw0/svgo/pkg/xast"
	"github.com/mitchellh/mapstructure"
)

// Info carries per-run context handed to every plugin.
type Info struct {
	// Path of the file being optimized, if known.
	Path string
	// MultipassCount is the zero-based pass number.
	MultipassCount int
}

// ApplyFunc rewrites doc in place according to params.
type ApplyFunc func(doc *xast.Document, params map[string]any, info Info) error

// Plugin is a named optimization step.
type Plugin struct {
	Name        string
	Description string
	Apply       ApplyFunc
}

// Registry manages the available plugins.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin to the registry.
// If a plugin with the same name exists, it is overwritten.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[p.Name] = p
}

// Get looks up a plugin by name.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// List returns every registered plugin sorted by name.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	out := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Apply looks up a plugin by name and runs it on doc.
// Returns domain.ErrUnknownPlugin if the plugin is not found.
func (r *Registry) Apply(doc *xast.Document, name string, params map[string]any, info Info) error {
	p, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownPlugin, name)
	}
	if err := p.Apply(doc, params, info); err != nil {
		return fmt.Errorf("plugin %s: %w", name, err)
	}
	return nil
}

// DecodeParams fills out from a loosely typed params map. Values are converted
// weakly ("3" decodes into an int) and unknown keys are rejected.
// Fields already set on out act as defaults.
func DecodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidParams, err)
	}
	return nil
}
