// Package parser turns SVG source into an xast.Document.
//
// Whitespace is normalised on the way in: comments are trimmed, blank text
// between elements is dropped and surrounding whitespace is trimmed from
// remaining text, except inside text elements (<text>, <tspan>, <title>...)
// where character data is kept verbatim.
package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"regexp"
	"strings"

	"github.com/aretw0/svgo/pkg/collections"
	"github.com/aretw0/svgo/pkg/domain"
	"github.com/aretw0/svgo/pkg/xast"
)

// SyntaxError describes malformed input. It wraps domain.ErrInvalidSVG.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%v: line %d: %s", domain.ErrInvalidSVG, e.Line, e.Msg)
	}
	return fmt.Sprintf("%v: %s", domain.ErrInvalidSVG, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return domain.ErrInvalidSVG }

// entityDecl matches a general entity declared in a DOCTYPE internal subset.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%"'<>]+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// Parse reads a complete SVG document. A leading byte order mark is ignored.
func Parse(input string) (*xast.Document, error) {
	input = strings.TrimPrefix(input, "\ufeff")
	d := xml.NewDecoder(strings.NewReader(input))
	d.Strict = true
	d.Entity = maps.Clone(xml.HTMLEntity)
	// Input is already a Go string; the declared encoding is informational.
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	p := &state{doc: &xast.Document{}, dec: d}
	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, p.wrap(err)
		}
		if err := p.consume(tok); err != nil {
			return nil, err
		}
	}
	return p.finish()
}

type state struct {
	doc   *xast.Document
	dec   *xml.Decoder
	stack []*xast.Element
	root  bool
}

func (p *state) consume(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		el := &xast.Element{Name: qualified(t.Name)}
		for _, a := range t.Attr {
			el.Attrs = append(el.Attrs, xast.Attr{Name: qualified(a.Name), Value: a.Value})
		}
		if len(p.stack) == 0 {
			if p.root {
				return p.errorf("multiple root elements")
			}
			p.root = true
		}
		p.appendChild(el)
		p.stack = append(p.stack, el)

	case xml.EndElement:
		name := qualified(t.Name)
		if len(p.stack) == 0 {
			return p.errorf("unexpected closing tag </%s>", name)
		}
		top := p.stack[len(p.stack)-1]
		if top.Name != name {
			return p.errorf("closing tag </%s> does not match <%s>", name, top.Name)
		}
		normalize(top)
		p.stack = p.stack[:len(p.stack)-1]

	case xml.CharData:
		p.appendText(string(t))

	case xml.Comment:
		p.appendChild(&xast.Comment{Value: strings.TrimSpace(string(t))})

	case xml.ProcInst:
		p.appendChild(&xast.ProcInst{Target: t.Target, Value: strings.TrimSpace(string(t.Inst))})

	case xml.Directive:
		raw := strings.TrimSpace(string(t))
		if rest, ok := strings.CutPrefix(raw, "DOCTYPE"); ok {
			p.declareEntities(rest)
			p.appendChild(&xast.Doctype{Value: strings.TrimSpace(rest)})
		}
	}
	return nil
}

// declareEntities makes entities from the internal subset available to
// the rest of the document, as in <svg xmlns="&ns_svg;">.
func (p *state) declareEntities(doctype string) {
	for _, m := range entityDecl.FindAllStringSubmatch(doctype, -1) {
		p.dec.Entity[m[1]] = m[2] + m[3]
	}
}

func (p *state) appendChild(n xast.Node) {
	if len(p.stack) == 0 {
		p.doc.Children = append(p.doc.Children, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	top.Children = append(top.Children, n)
}

// appendText merges adjacent character data (text and CDATA arrive as separate tokens).
func (p *state) appendText(s string) {
	children := &p.doc.Children
	if len(p.stack) > 0 {
		children = &p.stack[len(p.stack)-1].Children
	}
	if n := len(*children); n > 0 {
		if last, ok := (*children)[n-1].(*xast.Text); ok {
			last.Value += s
			return
		}
	}
	*children = append(*children, &xast.Text{Value: s})
}

func (p *state) finish() (*xast.Document, error) {
	if len(p.stack) > 0 {
		return nil, p.errorf("unclosed element <%s>", p.stack[len(p.stack)-1].Name)
	}
	if !p.root {
		return nil, &SyntaxError{Msg: "no root element"}
	}
	kept := p.doc.Children[:0]
	for _, n := range p.doc.Children {
		if t, ok := n.(*xast.Text); ok {
			if strings.TrimSpace(t.Value) != "" {
				return nil, &SyntaxError{Msg: "text outside of the root element"}
			}
			continue
		}
		kept = append(kept, n)
	}
	p.doc.Children = kept
	return p.doc, nil
}

func (p *state) errorf(format string, args ...any) error {
	line, _ := p.dec.InputPos()
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (p *state) wrap(err error) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{Line: se.Line, Msg: se.Msg}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return p.errorf("unexpected end of input")
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidSVG, err)
}

func normalize(el *xast.Element) {
	if collections.TextElems.Has(el.Name) {
		return
	}
	kept := el.Children[:0]
	for _, n := range el.Children {
		if t, ok := n.(*xast.Text); ok {
			v := strings.TrimSpace(t.Value)
			if v == "" {
				continue
			}
			t.Value = v
		}
		kept = append(kept, n)
	}
	el.Children = kept
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
