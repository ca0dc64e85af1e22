// Package xast is the XML tree that plugins read and rewrite.
//
// A Document holds the top-level nodes (processing instructions, doctype,
// comments and the root element). Elements keep their attributes in source
// order, which the stringifier reproduces byte for byte.
package xast

// Node is any member of a Document or Element child list.
type Node interface {
	node()
}

// Document is the root of a parsed SVG file.
type Document struct {
	Children []Node
}

// Element is an XML element with qualified name, ordered attributes and children.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

// Attr is a single attribute. Name is the qualified name (e.g. "xlink:href").
type Attr struct {
	Name  string
	Value string
}

// Text is character data. Entities are already decoded.
type Text struct {
	Value string
}

// Comment is an XML comment without its delimiters.
type Comment struct {
	Value string
}

// ProcInst is a processing instruction such as <?xml version="1.0"?>.
type ProcInst struct {
	Target string
	Value  string
}

// Doctype is a <!DOCTYPE ...> declaration. Value is everything after the keyword.
type Doctype struct {
	Value string
}

func (*Element) node()  {}
func (*Text) node()     {}
func (*Comment) node()  {}
func (*ProcInst) node() {}
func (*Doctype) node()  {}

// Root returns the first top-level element, usually <svg>.
func (d *Document) Root() *Element {
	for _, n := range d.Children {
		if el, ok := n.(*Element); ok {
			return el
		}
	}
	return nil
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// AttrIs reports whether the named attribute is present with the given value.
func (e *Element) AttrIs(name, value string) bool {
	v, ok := e.Attr(name)
	return ok && v == value
}

// SetAttr replaces the value of an existing attribute in place, or appends it.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the named attribute. It reports whether anything was removed.
func (e *Element) RemoveAttr(name string) bool {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// ChildElements returns the element children, skipping text and comments.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, n := range e.Children {
		if el, ok := n.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	c := &Element{Name: e.Name}
	if e.Attrs != nil {
		c.Attrs = append([]Attr(nil), e.Attrs...)
	}
	for _, n := range e.Children {
		c.Children = append(c.Children, cloneNode(n))
	}
	return c
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case *Element:
		return v.Clone()
	case *Text:
		t := *v
		return &t
	case *Comment:
		c := *v
		return &c
	case *ProcInst:
		p := *v
		return &p
	case *Doctype:
		d := *v
		return &d
	}
	return n
}
