package xast

import "errors"

// SkipChildren may be returned by Visitor.Enter to leave an element's subtree unvisited.
// Exit is still called for that element.
var SkipChildren = errors.New("skip children")

// Visitor receives every element of a document in depth-first order.
// Parent is nil for top-level elements.
type Visitor struct {
	Enter func(el, parent *Element) error
	Exit  func(el, parent *Element) error
}

// Walk traverses doc with v. Child slices are snapshotted before they are
// visited, so Exit may replace el.Children or the parent's children freely.
// The first error other than SkipChildren stops the walk and is returned.
func Walk(doc *Document, v Visitor) error {
	for _, n := range snapshot(doc.Children) {
		if el, ok := n.(*Element); ok {
			if err := walkElement(el, nil, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkElement(el, parent *Element, v Visitor) error {
	descend := true
	if v.Enter != nil {
		if err := v.Enter(el, parent); err != nil {
			if !errors.Is(err, SkipChildren) {
				return err
			}
			descend = false
		}
	}
	if descend {
		for _, n := range snapshot(el.Children) {
			if child, ok := n.(*Element); ok {
				if err := walkElement(child, el, v); err != nil {
					return err
				}
			}
		}
	}
	if v.Exit != nil {
		return v.Exit(el, parent)
	}
	return nil
}

func snapshot(nodes []Node) []Node {
	return append([]Node(nil), nodes...)
}

// Elements returns every element of doc in document order.
func Elements(doc *Document) []*Element {
	var out []*Element
	_ = Walk(doc, Visitor{Enter: func(el, _ *Element) error {
		out = append(out, el)
		return nil
	}})
	return out
}
