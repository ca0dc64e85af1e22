package plugins

import (
	"github.com/aretw0/svgo/pkg/registry"
	"github.com/aretw0/svgo/pkg/xast"
)

func convertEllipseToCircle(doc *xast.Document, _ map[string]any, _ registry.Info) error {
	for _, el := range xast.Elements(doc) {
		if el.Name != "ellipse" {
			continue
		}
		rx, ry := "0", "0"
		if v, ok := el.Attr("rx"); ok {
			rx = v
		}
		if v, ok := el.Attr("ry"); ok {
			ry = v
		}
		// auto is an SVG2 value
		if rx != ry && rx != "auto" && ry != "auto" {
			continue
		}
		radius := rx
		if rx == "auto" {
			radius = ry
		}
		el.Name = "circle"
		el.RemoveAttr("rx")
		el.RemoveAttr("ry")
		el.SetAttr("r", radius)
	}
	return nil
}
