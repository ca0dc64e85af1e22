package plugins

import (
	"github.com/aretw0/svgo/pkg/collections"
	"github.com/aretw0/svgo/pkg/registry"
	"github.com/aretw0/svgo/pkg/xast"
)

// collapseGroups removes useless groups.
//
//	<g>
//	    <g attr1="val1">
//	        <path d="..."/>
//	    </g>
//	</g>
//
// becomes
//
//	<path attr1="val1" d="..."/>
func collapseGroups(doc *xast.Document, _ map[string]any, _ registry.Info) error {
	return xast.Walk(doc, xast.Visitor{Exit: func(g, parent *xast.Element) error {
		if parent == nil || parent.Name == "switch" {
			return nil
		}
		if g.Name != "g" || len(g.Children) == 0 {
			return nil
		}

		if len(g.Attrs) > 0 && len(g.Children) == 1 {
			if child, ok := g.Children[0].(*xast.Element); ok && canMoveAttrs(g, child) {
				moveAttrs(g, child)
			}
		}

		if len(g.Attrs) > 0 {
			return nil
		}
		// animation elements add attributes to the group, which must stay
		for _, child := range g.ChildElements() {
			if collections.Animation.Has(child.Name) {
				return nil
			}
		}
		replaceChild(parent, g, g.Children)
		return nil
	}})
}

func canMoveAttrs(g, child *xast.Element) bool {
	if child.HasAttr("id") || g.HasAttr("filter") {
		return false
	}
	if g.HasAttr("class") && child.HasAttr("class") {
		return false
	}
	if !g.HasAttr("clip-path") && !g.HasAttr("mask") {
		return true
	}
	return child.Name == "g" && !g.HasAttr("transform") && !child.HasAttr("transform")
}

// moveAttrs moves group attributes onto its only child one at a time and
// stops at the first attribute that cannot be moved.
func moveAttrs(g, child *xast.Element) {
	for len(g.Attrs) > 0 {
		a := g.Attrs[0]
		if hasAnimatedAttr(child, a.Name) {
			return
		}
		current, ok := child.Attr(a.Name)
		switch {
		case !ok:
			child.SetAttr(a.Name, a.Value)
		case a.Name == "transform":
			child.SetAttr(a.Name, a.Value+" "+current)
		case current == "inherit":
			child.SetAttr(a.Name, a.Value)
		case !collections.InheritableAttrs.Has(a.Name) && current != a.Value:
			return
		}
		g.Attrs = g.Attrs[1:]
	}
}

func hasAnimatedAttr(el *xast.Element, name string) bool {
	if collections.Animation.Has(el.Name) && el.AttrIs("attributeName", name) {
		return true
	}
	for _, child := range el.ChildElements() {
		if hasAnimatedAttr(child, name) {
			return true
		}
	}
	return false
}

func replaceChild(parent, old *xast.Element, with []xast.Node) {
	for i, n := range parent.Children {
		if n != old {
			continue
		}
		children := make([]xast.Node, 0, len(parent.Children)-1+len(with))
		children = append(children, parent.Children[:i]...)
		children = append(children, with...)
		children = append(children, parent.Children[i+1:]...)
		parent.Children = children
		return
	}
}
