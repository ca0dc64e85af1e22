// Package collections holds the static SVG vocabulary the plugins consult:
// element groups, inheritable presentation attributes, reference properties
// and colour tables.
//
// See https://www.w3.org/TR/SVG11/intro.html#Definitions and
// https://www.w3.org/TR/SVG11/propidx.html.
package collections

// Set is a membership lookup over names.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is a member.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Element groups.
var (
	Animation = NewSet("animate", "animateColor", "animateMotion", "animateTransform", "set")

	Descriptive = NewSet("desc", "metadata", "title")

	Shape = NewSet("circle", "ellipse", "line", "path", "polygon", "polyline", "rect")

	Structural = NewSet("defs", "g", "svg", "symbol", "use")

	PaintServer = NewSet("solidColor", "linearGradient", "radialGradient", "meshGradient", "pattern", "hatch")

	NonRendering = NewSet(
		"linearGradient", "radialGradient", "pattern", "clipPath", "mask",
		"marker", "symbol", "filter", "solidColor",
	)

	Container = NewSet(
		"a", "defs", "g", "marker", "mask", "missing-glyph", "pattern",
		"svg", "switch", "symbol", "foreignObject",
	)

	TextContent = NewSet(
		"altGlyph", "altGlyphDef", "altGlyphItem", "glyph", "glyphRef",
		"textPath", "text", "tref", "tspan",
	)

	TextContentChild = NewSet("altGlyph", "textPath", "tref", "tspan")

	LightSource = NewSet("feDiffuseLighting", "feSpecularLighting", "feDistantLight", "fePointLight", "feSpotLight")

	FilterPrimitive = NewSet(
		"feBlend", "feColorMatrix", "feComponentTransfer", "feComposite",
		"feConvolveMatrix", "feDiffuseLighting", "feDisplacementMap",
		"feDropShadow", "feFlood", "feFuncA", "feFuncB", "feFuncG", "feFuncR",
		"feGaussianBlur", "feImage", "feMerge", "feMergeNode", "feMorphology",
		"feOffset", "feSpecularLighting", "feTile", "feTurbulence",
	)
)

// TextElems are elements whose character data is significant whitespace and all.
var TextElems = NewSet(
	"altGlyph", "altGlyphDef", "altGlyphItem", "glyph", "glyphRef",
	"textPath", "text", "tref", "tspan", "title",
)

// InheritableAttrs are presentation attributes inherited by descendants.
var InheritableAttrs = NewSet(
	"clip-rule", "color", "color-interpolation", "color-interpolation-filters",
	"color-profile", "color-rendering", "cursor", "direction",
	"dominant-baseline", "fill", "fill-opacity", "fill-rule", "font",
	"font-family", "font-size", "font-size-adjust", "font-stretch",
	"font-style", "font-variant", "font-weight",
	"glyph-orientation-horizontal", "glyph-orientation-vertical",
	"image-rendering", "letter-spacing", "marker", "marker-end", "marker-mid",
	"marker-start", "paint-order", "pointer-events", "shape-rendering",
	"stroke", "stroke-dasharray", "stroke-dashoffset", "stroke-linecap",
	"stroke-linejoin", "stroke-miterlimit", "stroke-opacity", "stroke-width",
	"text-anchor", "text-rendering", "transform", "visibility",
	"word-spacing", "writing-mode",
)

// ReferencesProps may carry url(#id) references.
// https://www.w3.org/TR/SVG11/linking.html#processingIRI
var ReferencesProps = NewSet(
	"clip-path", "color-profile", "fill", "filter", "marker-start",
	"marker-mid", "marker-end", "mask", "stroke", "style",
)

// ColorsProps accept a <color> value.
// https://www.w3.org/TR/SVG11/single-page.html#types-DataTypeColor
var ColorsProps = NewSet("color", "fill", "stroke", "stop-color", "flood-color", "lighting-color")
