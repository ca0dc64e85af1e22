package plugins

import (
	"regexp"

	"github.com/aretw0/svgo/pkg/registry"
	"github.com/aretw0/svgo/pkg/xast"
)

// https://www.w3.org/TR/SVG11/filters.html#EnableBackgroundProperty
var regEnableBackground = regexp.MustCompile(`^new\s0\s0\s([-+]?\d*\.?\d+([eE][-+]?\d+)?)\s([-+]?\d*\.?\d+([eE][-+]?\d+)?)$`)

func cleanupEnableBackground(doc *xast.Document, _ map[string]any, _ registry.Info) error {
	hasFilter := false
	_ = xast.Walk(doc, xast.Visitor{Enter: func(el, _ *xast.Element) error {
		if el.Name == "filter" {
			hasFilter = true
			return xast.SkipChildren
		}
		return nil
	}})

	for _, el := range xast.Elements(doc) {
		value, ok := el.Attr("enable-background")
		if !ok {
			continue
		}
		// without filters the attribute has no effect
		if !hasFilter {
			el.RemoveAttr("enable-background")
			continue
		}
		if el.Name != "svg" && el.Name != "mask" && el.Name != "pattern" {
			continue
		}
		width, hasWidth := el.Attr("width")
		height, hasHeight := el.Attr("height")
		if !hasWidth || !hasHeight {
			continue
		}
		m := regEnableBackground.FindStringSubmatch(value)
		if m == nil || m[1] != width || m[3] != height {
			continue
		}
		if el.Name == "svg" {
			el.RemoveAttr("enable-background")
		} else {
			el.SetAttr("enable-background", "new")
		}
	}
	return nil
}
