// Package stringifier serialises an xast.Document back to SVG text.
package stringifier

import (
	"strings"

	"github.com/aretw0/svgo/pkg/collections"
	"github.com/aretw0/svgo/pkg/xast"
)

// EOL selects the line terminator used in pretty output.
type EOL string

const (
	LF   EOL = "lf"
	CRLF EOL = "crlf"
)

func (e EOL) String() string {
	if e == CRLF {
		return "\r\n"
	}
	return "\n"
}

// Options controls serialisation.
type Options struct {
	Pretty bool `yaml:"pretty" json:"pretty"`
	// Indent is the number of spaces per level; a negative value indents with a tab.
	Indent       int  `yaml:"indent" json:"indent"`
	EOL          EOL  `yaml:"eol" json:"eol"`
	FinalNewline bool `yaml:"finalNewline" json:"finalNewline"`
	UseShortTags bool `yaml:"useShortTags" json:"useShortTags"`
}

// DefaultOptions returns compact output with short tags.
func DefaultOptions() Options {
	return Options{Indent: 4, EOL: LF, UseShortTags: true}
}

type delims struct {
	tagOpenEnd  string
	tagCloseEnd string
	tagShortEnd string
	textEnd     string
	commentEnd  string
	doctypeEnd  string
	procInstEnd string
}

var compact = delims{
	tagOpenEnd:  ">",
	tagCloseEnd: ">",
	tagShortEnd: "/>",
	doctypeEnd:  ">",
	commentEnd:  "-->",
	procInstEnd: "?>",
}

var (
	attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")
	textEscaper = strings.NewReplacer(`&`, "&amp;", `'`, "&apos;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")
)

type printer struct {
	opts   Options
	d      delims
	indent string
	level  int
	// textContext is the text element currently being emitted, if any.
	textContext *xast.Element
	b           strings.Builder
}

// Stringify renders doc.
func Stringify(doc *xast.Document, opts Options) string {
	p := &printer{opts: opts, d: compact}
	if opts.Pretty {
		eol := opts.EOL.String()
		p.d = delims{
			tagOpenEnd:  compact.tagOpenEnd + eol,
			tagCloseEnd: compact.tagCloseEnd + eol,
			tagShortEnd: compact.tagShortEnd + eol,
			textEnd:     compact.textEnd + eol,
			commentEnd:  compact.commentEnd + eol,
			doctypeEnd:  compact.doctypeEnd + eol,
			procInstEnd: compact.procInstEnd + eol,
		}
	}
	if opts.Indent < 0 {
		p.indent = "\t"
	} else {
		p.indent = strings.Repeat(" ", opts.Indent)
	}

	for _, n := range doc.Children {
		p.child(n)
	}

	out := p.b.String()
	if opts.FinalNewline && out != "" && !strings.HasSuffix(out, "\n") {
		out += opts.EOL.String()
	}
	return out
}

func (p *printer) child(n xast.Node) {
	p.level++
	defer func() { p.level-- }()

	switch n := n.(type) {
	case *xast.Element:
		p.element(n)
	case *xast.Text:
		p.text(n)
	case *xast.Comment:
		p.b.WriteString("<!--")
		p.b.WriteString(n.Value)
		p.b.WriteString(p.d.commentEnd)
	case *xast.Doctype:
		p.b.WriteString("<!DOCTYPE")
		if n.Value != "" {
			p.b.WriteByte(' ')
			p.b.WriteString(n.Value)
		}
		p.b.WriteString(p.d.doctypeEnd)
	case *xast.ProcInst:
		p.b.WriteString("<?")
		p.b.WriteString(n.Target)
		if n.Value != "" {
			p.b.WriteByte(' ')
			p.b.WriteString(n.Value)
		}
		p.b.WriteString(p.d.procInstEnd)
	}
}

func (p *printer) element(el *xast.Element) {
	d := p.d
	if p.textContext != nil {
		d = compact
	}

	if len(el.Children) == 0 {
		p.b.WriteString(p.currentIndent())
		p.b.WriteByte('<')
		p.b.WriteString(el.Name)
		p.attrs(el)
		if p.opts.UseShortTags {
			p.b.WriteString(d.tagShortEnd)
			return
		}
		p.b.WriteString(d.tagOpenEnd)
		p.b.WriteString("</")
		p.b.WriteString(el.Name)
		p.b.WriteString(d.tagCloseEnd)
		return
	}

	openEnd := d.tagOpenEnd
	openIndent := p.currentIndent()
	closeIndent := openIndent
	entered := false
	if p.textContext == nil && collections.TextElems.Has(el.Name) {
		openEnd = compact.tagOpenEnd
		closeIndent = ""
		p.textContext = el
		entered = true
	}

	p.b.WriteString(openIndent)
	p.b.WriteByte('<')
	p.b.WriteString(el.Name)
	p.attrs(el)
	p.b.WriteString(openEnd)

	for _, c := range el.Children {
		p.child(c)
	}

	if entered {
		p.textContext = nil
	}

	p.b.WriteString(closeIndent)
	p.b.WriteString("</")
	p.b.WriteString(el.Name)
	p.b.WriteString(d.tagCloseEnd)
}

func (p *printer) attrs(el *xast.Element) {
	for _, a := range el.Attrs {
		p.b.WriteByte(' ')
		p.b.WriteString(a.Name)
		p.b.WriteString(`="`)
		p.b.WriteString(attrEscaper.Replace(a.Value))
		p.b.WriteByte('"')
	}
}

func (p *printer) text(t *xast.Text) {
	p.b.WriteString(p.currentIndent())
	p.b.WriteString(textEscaper.Replace(t.Value))
	if p.textContext == nil {
		p.b.WriteString(p.d.textEnd)
	}
}

func (p *printer) currentIndent() string {
	if !p.opts.Pretty || p.textContext != nil {
		return ""
	}
	return strings.Repeat(p.indent, p.level-1)
}
