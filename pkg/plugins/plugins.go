// Package plugins contains the built-in optimization steps and the default
// preset that runs them.
package plugins

import "github.com/aretw0/svgo/pkg/registry"

// PresetDefault is the name of the built-in preset.
const PresetDefault = "preset-default"

var builtins = []registry.Plugin{
	{
		Name:        "cleanupAttrs",
		Description: "cleanups attributes from newlines, trailing and repeating spaces",
		Apply:       cleanupAttrs,
	},
	{
		Name:        "cleanupEnableBackground",
		Description: "remove or cleanup enable-background attribute when possible",
		Apply:       cleanupEnableBackground,
	},
	{
		Name:        "cleanupIds",
		Description: "removes unused IDs and minifies used",
		Apply:       cleanupIds,
	},
	{
		Name:        "cleanupNumericValues",
		Description: "rounds numeric values to the fixed precision, removes default 'px' units",
		Apply:       cleanupNumericValues,
	},
	{
		Name:        "convertColors",
		Description: "converts colors: rgb() to #rrggbb and #rrggbb to #rgb",
		Apply:       convertColors,
	},
	{
		Name:        "convertEllipseToCircle",
		Description: "converts non-eccentric <ellipse>s to <circle>s",
		Apply:       convertEllipseToCircle,
	},
	{
		Name:        "collapseGroups",
		Description: "collapses useless groups",
		Apply:       collapseGroups,
	},
}

// DefaultPreset lists the plugins of preset-default in execution order.
// cleanupEnableBackground compares enable-background with width and height,
// so it runs before cleanupNumericValues rewrites them.
var DefaultPreset = []string{
	"cleanupAttrs",
	"cleanupEnableBackground",
	"cleanupIds",
	"cleanupNumericValues",
	"convertColors",
	"convertEllipseToCircle",
	"collapseGroups",
}

// Register adds every built-in plugin to r.
func Register(r *registry.Registry) {
	for _, p := range builtins {
		r.Register(p)
	}
}

// NewRegistry returns a registry holding the built-in plugins.
func NewRegistry() *registry.Registry {
	r := registry.NewRegistry()
	Register(r)
	return r
}
