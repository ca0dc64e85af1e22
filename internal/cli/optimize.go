package cli

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"

	"github.com/aretw0/svgo"
	"github.com/aretw0/svgo/pkg/config"
	"github.com/aretw0/svgo/pkg/plugins"
	"github.com/spf13/cobra"
)

type optimizeOptions struct {
	inputs      []string
	str         string
	folder      string
	recursive   bool
	exclude     []string
	outputs     []string
	precision   int
	multipass   bool
	pretty      bool
	indent      int
	eol         string
	final       bool
	enable      []string
	disable     []string
	showPlugins bool
	concurrency int
}

func registerOptimize(root *cobra.Command, g *globals) {
	o := &optimizeOptions{}

	f := root.Flags()
	f.StringSliceVarP(&o.inputs, "input", "i", nil, "Input files, \"-\" for stdin")
	f.StringVarP(&o.str, "string", "s", "", "Input SVG data string")
	f.StringVarP(&o.folder, "folder", "f", "", "Input folder, optimize and rewrite all *.svg files")
	f.BoolVarP(&o.recursive, "recursive", "r", false, "Use with --folder. Optimize *.svg files in folders recursively")
	f.StringSliceVar(&o.exclude, "exclude", nil, "Use with --folder. Glob patterns of files to skip (e.g. \"**/*.min.svg\")")
	f.StringSliceVarP(&o.outputs, "output", "o", nil, "Output file or folder (by default the same as the input), \"-\" for stdout")
	f.IntVarP(&o.precision, "precision", "p", 3, "Set number of digits in the fractional part, overrides plugins params")
	f.BoolVar(&o.multipass, "multipass", false, "Pass over SVGs multiple times to ensure all optimizations are applied")
	f.BoolVar(&o.pretty, "pretty", true, "Indent the output, --pretty=false for compact markup")
	f.IntVar(&o.indent, "indent", 4, "Indent number when pretty printing SVGs, negative for tabs")
	f.StringVar(&o.eol, "eol", "", "Line break to use when outputting SVG: lf, crlf (default lf)")
	f.BoolVar(&o.final, "final-newline", false, "Ensure SVG ends with a line break")
	f.StringSliceVar(&o.enable, "enable", nil, "Plugins to run in addition to the pipeline")
	f.StringSliceVar(&o.disable, "disable", nil, "Plugins to turn off")
	f.BoolVar(&o.showPlugins, "show-plugins", false, "Show available plugins and exit")
	f.BoolVarP(&g.quiet, "quiet", "q", false, "Only output error messages, not regular status messages")
	f.IntVar(&o.concurrency, "concurrency", runtime.NumCPU(), "Number of files optimized in parallel")

	root.RunE = traced(func(cmd *cobra.Command, args []string) error {
		return o.run(cmd, args, g)
	})
}

func (o *optimizeOptions) run(cmd *cobra.Command, args []string, g *globals) error {
	if o.showPlugins {
		showPlugins(cmd.OutOrStdout())
		return nil
	}

	cfg, err := o.buildConfig(cmd, g)
	if err != nil {
		return err
	}
	// fail on a bad pipeline before touching any file
	if _, err := svgo.New(svgo.WithConfig(cfg)); err != nil {
		return err
	}

	jobs, err := o.plan(cmd, args)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return cmd.Help()
	}

	rep := newReporter(cmd.OutOrStdout(), g.quiet, len(jobs) > 1)
	return o.process(cmd, cfg, jobs, rep, g.logger)
}

// buildConfig layers the flags that were set explicitly over the config file.
func (o *optimizeOptions) buildConfig(cmd *cobra.Command, g *globals) (*config.Config, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("precision") {
		p := o.precision
		cfg.FloatPrecision = &p
	}
	if f.Changed("multipass") {
		cfg.Multipass = o.multipass
	}
	if f.Changed("pretty") {
		p := o.pretty
		cfg.JS2SVG.Pretty = &p
	}
	if f.Changed("indent") {
		i := o.indent
		cfg.JS2SVG.Indent = &i
	}
	if f.Changed("eol") {
		cfg.JS2SVG.EOL = o.eol
	}
	if f.Changed("final-newline") {
		fn := o.final
		cfg.JS2SVG.FinalNewline = &fn
	}

	applyToggles(cfg, o.enable, o.disable)
	g.logger.Debug("Config resolved", "plugins", len(cfg.Plugins), "multipass", cfg.Multipass)
	return cfg, nil
}

// applyToggles turns plugins off (via preset overrides or by dropping their
// entry) and appends enabled plugins that are not already running.
func applyToggles(cfg *config.Config, enable, disable []string) {
	if len(enable) == 0 && len(disable) == 0 {
		return
	}
	if len(cfg.Plugins) == 0 {
		cfg.Plugins = []config.PluginConfig{{Name: plugins.PresetDefault}}
	}

	entries := make([]config.PluginConfig, 0, len(cfg.Plugins))
	for _, e := range cfg.Plugins {
		if slices.Contains(disable, e.Name) {
			continue
		}
		if e.Name == plugins.PresetDefault {
			e = withOverrides(e, enable, disable)
		}
		entries = append(entries, e)
	}

	for _, name := range enable {
		if slices.Contains(disable, name) || runs(entries, name) {
			continue
		}
		entries = append(entries, config.PluginConfig{Name: name})
	}
	cfg.Plugins = entries
}

func withOverrides(e config.PluginConfig, enable, disable []string) config.PluginConfig {
	params := map[string]any{}
	for k, v := range e.Params {
		params[k] = v
	}
	overrides := map[string]any{}
	if m, ok := params["overrides"].(map[string]any); ok {
		for k, v := range m {
			overrides[k] = v
		}
	}

	for _, name := range enable {
		if off, ok := overrides[name].(bool); ok && !off {
			delete(overrides, name)
		}
	}
	for _, name := range disable {
		if slices.Contains(plugins.DefaultPreset, name) {
			overrides[name] = false
		}
	}

	params["overrides"] = overrides
	e.Params = params
	return e
}

// runs reports whether name already executes as part of entries.
func runs(entries []config.PluginConfig, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
		if e.Name != plugins.PresetDefault || !slices.Contains(plugins.DefaultPreset, name) {
			continue
		}
		overrides, _ := e.Params["overrides"].(map[string]any)
		if off, ok := overrides[name].(bool); !ok || off {
			return true
		}
	}
	return false
}

func showPlugins(w io.Writer) {
	fmt.Fprintln(w, "Currently available plugins:")
	for _, p := range plugins.NewRegistry().List() {
		fmt.Fprintf(w, " [ %s ] : %s\n", p.Name, p.Description)
	}
}

func (o *optimizeOptions) optimizerOptions(cfg *config.Config, path string, logger *slog.Logger) []svgo.Option {
	return []svgo.Option{
		svgo.WithConfig(cfg),
		svgo.WithPath(path),
		svgo.WithLogger(logger),
	}
}
