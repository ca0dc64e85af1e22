package svgo

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/aretw0/svgo/pkg/config"
	"github.com/aretw0/svgo/pkg/parser"
	"github.com/aretw0/svgo/pkg/plugins"
	"github.com/aretw0/svgo/pkg/registry"
	"github.com/aretw0/svgo/pkg/stringifier"
)

// maxPasses bounds multipass optimization.
const maxPasses = 10

// Output is the result of an optimization.
type Output struct {
	Data string `json:"data"`
}

// Optimizer runs a resolved plugin pipeline. It is immutable after New and
// safe for concurrent use.
type Optimizer struct {
	cfg      config.Config
	registry *registry.Registry
	logger   *slog.Logger

	steps     []config.Step
	stringify stringifier.Options
}

// Option defines a functional option for configuring the Optimizer.
type Option func(*Optimizer)

// WithConfig replaces the whole configuration, including settings made by
// earlier options. Pass it first.
func WithConfig(cfg *config.Config) Option {
	return func(o *Optimizer) {
		if cfg != nil {
			o.cfg = *cfg
		}
	}
}

// WithPlugins sets the pipeline to the named plugins (or presets), in order.
func WithPlugins(names ...string) Option {
	return func(o *Optimizer) {
		o.cfg.Plugins = make([]config.PluginConfig, 0, len(names))
		for _, n := range names {
			o.cfg.Plugins = append(o.cfg.Plugins, config.PluginConfig{Name: n})
		}
	}
}

// WithPretty toggles indented output.
func WithPretty(pretty bool) Option {
	return func(o *Optimizer) {
		o.cfg.JS2SVG.Pretty = &pretty
	}
}

// WithIndent sets the number of spaces per level in pretty output; negative means a tab.
func WithIndent(n int) Option {
	return func(o *Optimizer) {
		o.cfg.JS2SVG.Indent = &n
	}
}

// WithEOL sets the line terminator ("lf" or "crlf").
func WithEOL(eol string) Option {
	return func(o *Optimizer) {
		o.cfg.JS2SVG.EOL = eol
	}
}

// WithFinalNewline makes sure the output ends with a line terminator.
func WithFinalNewline(on bool) Option {
	return func(o *Optimizer) {
		o.cfg.JS2SVG.FinalNewline = &on
	}
}

// WithFloatPrecision sets the precision used by numeric plugins.
func WithFloatPrecision(p int) Option {
	return func(o *Optimizer) {
		o.cfg.FloatPrecision = &p
	}
}

// WithMultipass repeats the pipeline while the output keeps shrinking.
func WithMultipass(on bool) Option {
	return func(o *Optimizer) {
		o.cfg.Multipass = on
	}
}

// WithPath records the source file path for plugins.
func WithPath(path string) Option {
	return func(o *Optimizer) {
		o.cfg.Path = path
	}
}

// WithRegistry injects a custom plugin registry.
func WithRegistry(r *registry.Registry) Option {
	return func(o *Optimizer) {
		o.registry = r
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Optimizer) {
		o.logger = logger
	}
}

// New builds an Optimizer. Output is pretty-printed with four spaces unless
// configured otherwise; an empty plugin list means preset-default.
func New(opts ...Option) (*Optimizer, error) {
	o := &Optimizer{}
	for _, opt := range opts {
		opt(o)
	}

	if o.registry == nil {
		o.registry = plugins.NewRegistry()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	steps, err := o.cfg.Resolve(o.registry)
	if err != nil {
		return nil, err
	}
	o.steps = steps

	defaults := stringifier.DefaultOptions()
	defaults.Pretty = true
	o.stringify, err = o.cfg.JS2SVG.Apply(defaults)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Optimize runs the pipeline over input. Identical input always yields
// identical output; no state survives the call.
func (o *Optimizer) Optimize(input string) (*Output, error) {
	passes := 1
	if o.cfg.Multipass {
		passes = maxPasses
	}

	data := input
	prevSize := math.MaxInt
	ran := 0
	for pass := 0; pass < passes; pass++ {
		doc, err := parser.Parse(data)
		if err != nil {
			if pass == 0 {
				return nil, err
			}
			return nil, fmt.Errorf("pass %d: %w", pass+1, err)
		}

		info := registry.Info{Path: o.cfg.Path, MultipassCount: pass}
		for _, s := range o.steps {
			if err := o.registry.Apply(doc, s.Name, s.Params, info); err != nil {
				return nil, err
			}
		}

		out := stringifier.Stringify(doc, o.stringify)
		ran++
		if len(out) >= prevSize {
			break
		}
		data = out
		prevSize = len(out)
	}

	o.logger.Debug("optimized",
		"path", o.cfg.Path,
		"passes", ran,
		"in", len(input),
		"out", len(data),
	)
	return &Output{Data: data}, nil
}

// Steps returns the resolved pipeline.
func (o *Optimizer) Steps() []config.Step {
	return append([]config.Step(nil), o.steps...)
}

// Optimize is a one-shot helper around New and (*Optimizer).Optimize.
func Optimize(input string, opts ...Option) (*Output, error) {
	o, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return o.Optimize(input)
}
