package plugins

import (
	"regexp"
	"strings"

	"github.com/aretw0/svgo/pkg/collections"
	"github.com/aretw0/svgo/pkg/registry"
	"github.com/aretw0/svgo/pkg/xast"
)

type cleanupIdsParams struct {
	Remove           bool     `mapstructure:"remove"`
	Minify           bool     `mapstructure:"minify"`
	Preserve         []string `mapstructure:"preserve"`
	PreservePrefixes []string `mapstructure:"preservePrefixes"`
	Force            bool     `mapstructure:"force"`
}

var (
	regReferencesURL   = regexp.MustCompile(`\burl\((["'])?#(.+?)(["'])?\)`)
	regReferencesHref  = regexp.MustCompile(`^#(.+?)$`)
	regReferencesBegin = regexp.MustCompile(`(\D+)\.`)
)

const generateIDChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type idReference struct {
	el    *xast.Element
	name  string
	value string
}

type idCollector struct {
	force       bool
	deoptimized bool
	// ids in document order
	ids    []string
	nodeBy map[string]*xast.Element
	refsBy map[string][]idReference
}

func (c *idCollector) enter(el, _ *xast.Element) error {
	if !c.force {
		if (el.Name == "style" || el.Name == "script") && len(el.Children) > 0 {
			c.deoptimized = true
			return nil
		}
		// keep ids of a document made of defs only
		if el.Name == "svg" && defsOnly(el) {
			return xast.SkipChildren
		}
	}

	attrs := el.Attrs[:0]
	for _, a := range el.Attrs {
		if a.Name == "id" {
			if _, dup := c.nodeBy[a.Value]; dup {
				continue
			}
			c.ids = append(c.ids, a.Value)
			c.nodeBy[a.Value] = el
		} else if id := referencedID(a); id != "" {
			c.refsBy[id] = append(c.refsBy[id], idReference{el: el, name: a.Name, value: a.Value})
		}
		attrs = append(attrs, a)
	}
	el.Attrs = attrs
	return nil
}

func defsOnly(svg *xast.Element) bool {
	for _, n := range svg.Children {
		switch n := n.(type) {
		case *xast.Element:
			if n.Name != "defs" {
				return false
			}
		case *xast.Text:
			if strings.TrimSpace(n.Value) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func referencedID(a xast.Attr) string {
	switch {
	case collections.ReferencesProps.Has(a.Name):
		if m := regReferencesURL.FindStringSubmatch(a.Value); m != nil {
			return m[2]
		}
	case a.Name == "href" || strings.HasSuffix(a.Name, ":href"):
		if m := regReferencesHref.FindStringSubmatch(a.Value); m != nil {
			return m[1]
		}
	case a.Name == "begin":
		if m := regReferencesBegin.FindStringSubmatch(a.Value); m != nil {
			return m[1]
		}
	}
	return ""
}

// nextID advances a little-endian counter over generateIDChars: a, b, ... Z, aa, ab, ...
func nextID(cur []int) []int {
	if len(cur) == 0 {
		return []int{0}
	}
	last := len(generateIDChars) - 1
	cur[len(cur)-1]++
	for i := len(cur) - 1; i > 0; i-- {
		if cur[i] > last {
			cur[i] = 0
			cur[i-1]++
		}
	}
	if cur[0] > last {
		cur[0] = 0
		cur = append([]int{0}, cur...)
	}
	return cur
}

func idString(cur []int) string {
	var b strings.Builder
	for _, i := range cur {
		b.WriteByte(generateIDChars[i])
	}
	return b.String()
}

func cleanupIds(doc *xast.Document, params map[string]any, _ registry.Info) error {
	p := cleanupIdsParams{Remove: true, Minify: true}
	if err := registry.DecodeParams(params, &p); err != nil {
		return err
	}

	c := &idCollector{
		force:  p.Force,
		nodeBy: map[string]*xast.Element{},
		refsBy: map[string][]idReference{},
	}
	_ = xast.Walk(doc, xast.Visitor{Enter: c.enter})
	if c.deoptimized {
		return nil
	}

	preserved := make(map[string]struct{}, len(p.Preserve))
	for _, id := range p.Preserve {
		preserved[id] = struct{}{}
	}
	isPreserved := func(id string) bool {
		if _, ok := preserved[id]; ok {
			return true
		}
		for _, prefix := range p.PreservePrefixes {
			if strings.HasPrefix(id, prefix) {
				return true
			}
		}
		return false
	}

	var current []int
	for _, id := range c.ids {
		el := c.nodeBy[id]
		refs, referenced := c.refsBy[id]
		if !referenced {
			if p.Remove && !isPreserved(id) {
				el.RemoveAttr("id")
			}
			continue
		}
		if !p.Minify || isPreserved(id) {
			continue
		}

		current = nextID(current)
		minified := idString(current)
		for isPreserved(minified) {
			current = nextID(current)
			minified = idString(current)
		}
		el.SetAttr("id", minified)

		for _, ref := range refs {
			var value string
			if strings.Contains(ref.value, "#") {
				// href and url()
				value = strings.ReplaceAll(ref.value, "#"+id, "#"+minified)
			} else {
				value = strings.ReplaceAll(ref.value, id+".", minified+".")
			}
			ref.el.SetAttr(ref.name, value)
		}
	}
	return nil
}
