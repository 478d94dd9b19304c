package ir

import (
	"io"
	"strings"

	"github.com/grindlemire/ngflow/internal/ctrlflow"
)

// Options controls the encoder's layout.
type Options struct {
	// Indent is repeated once per nesting level. Empty means two spaces.
	Indent string
}

// DefaultOptions indents by two spaces.
var DefaultOptions = Options{Indent: "  "}

// Encode renders t as intermediate XML with DefaultOptions.
func Encode(t *ctrlflow.Template) string {
	return DefaultOptions.Encode(t)
}

// EncodeTo writes the intermediate XML for t to w.
func EncodeTo(w io.Writer, t *ctrlflow.Template) error {
	_, err := io.WriteString(w, Encode(t))
	return err
}

// Encode renders t as intermediate XML.
func (o Options) Encode(t *ctrlflow.Template) string {
	indent := o.Indent
	if indent == "" {
		indent = DefaultOptions.Indent
	}
	e := &encoder{indent: indent}
	e.open(TagTemplate, nil, len(t.Body) == 0)
	if len(t.Body) > 0 {
		e.encodeBody(t.Body)
		e.close(TagTemplate)
	}
	return e.buf.String()
}

// attr is one key/value pair in output order.
type attr struct {
	key, value string
}

// encoder writes one element per construct. Attribute values are escaped so
// that each stays on a single line and keeps its edge whitespace.
type encoder struct {
	indent string
	depth  int
	buf    strings.Builder
}

func (e *encoder) write(s string) {
	e.buf.WriteString(s)
}

func (e *encoder) newline() {
	e.buf.WriteByte('\n')
}

func (e *encoder) writeIndent() {
	for i := 0; i < e.depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

// open writes a start tag. When empty is set the tag is self-closing and the
// depth is left unchanged.
func (e *encoder) open(name string, attrs []attr, empty bool) {
	e.writeIndent()
	e.write("<")
	e.write(name)
	e.depth++
	for _, a := range attrs {
		e.newline()
		e.writeIndent()
		e.write(a.key)
		e.write(`="`)
		e.write(escapeAttr(a.value))
		e.write(`"`)
	}
	if empty {
		e.depth--
		e.write("/>")
	} else {
		e.write(">")
	}
	e.newline()
}

func (e *encoder) close(name string) {
	e.depth--
	e.writeIndent()
	e.write("</")
	e.write(name)
	e.write(">")
	e.newline()
}

// element writes a complete element whose children are produced by body.
func (e *encoder) element(name string, attrs []attr, hasChildren bool, body func()) {
	e.open(name, attrs, !hasChildren)
	if hasChildren {
		body()
		e.close(name)
	}
}

// optional appends key only when value is non-empty, so absence never
// decodes as an empty string.
func optional(attrs []attr, key, value string) []attr {
	if value == "" {
		return attrs
	}
	return append(attrs, attr{key, value})
}

func (e *encoder) encodeBody(body ctrlflow.Body) {
	for _, n := range body {
		e.encodeNode(n)
	}
}

func (e *encoder) encodeNode(n ctrlflow.Node) {
	switch n := n.(type) {
	case *ctrlflow.Text:
		e.open(TagText, []attr{{AttrRaw, n.Text}}, true)
	case *ctrlflow.IfChain:
		e.encodeChain(n)
	case *ctrlflow.ForLoop:
		e.encodeFor(n)
	case *ctrlflow.SwitchBlock:
		e.encodeSwitch(n)
	}
}

func (e *encoder) encodeChain(c *ctrlflow.IfChain) {
	e.element(TagChain, nil, len(c.Branches) > 0, func() {
		for _, b := range c.Branches {
			var name string
			var attrs []attr
			switch b.Kind {
			case ctrlflow.BranchIf:
				name = TagIf
				attrs = []attr{{AttrCondition, b.Condition}}
				attrs = optional(attrs, AttrVariable, b.Alias)
			case ctrlflow.BranchElseIf:
				name = TagElseIf
				attrs = []attr{{AttrCondition, b.Condition}}
			case ctrlflow.BranchElse:
				name = TagElse
			}
			e.element(name, attrs, len(b.Body) > 0, func() { e.encodeBody(b.Body) })
		}
	})
}

func (e *encoder) encodeFor(f *ctrlflow.ForLoop) {
	attrs := []attr{
		{AttrItem, f.Item},
		{AttrCollection, f.Collection},
		{AttrTrack, f.Track},
	}
	attrs = optional(attrs, AttrVariables, f.Extra)

	e.element(TagFor, attrs, len(f.Body) > 0 || f.HasEmpty, func() {
		e.encodeBody(f.Body)
		if f.HasEmpty {
			e.element(TagEmpty, nil, len(f.Empty) > 0, func() { e.encodeBody(f.Empty) })
		}
	})
}

func (e *encoder) encodeSwitch(s *ctrlflow.SwitchBlock) {
	attrs := []attr{{AttrExpression, s.Expression}}
	attrs = optional(attrs, AttrTrail, s.Trail)

	e.element(TagSwitch, attrs, len(s.Cases) > 0, func() {
		for _, c := range s.Cases {
			name := TagCase
			var caseAttrs []attr
			if c.Default {
				name = TagDefault
			} else {
				caseAttrs = []attr{{AttrValue, c.Value}}
			}
			caseAttrs = optional(caseAttrs, AttrLead, c.Lead)
			e.element(name, caseAttrs, len(c.Body) > 0, func() { e.encodeBody(c.Body) })
		}
	})
}

// escapeAttr escapes a value for a double-quoted attribute. Line breaks and
// tabs become character references so each value stays on one line, and
// spaces at either edge become &#32; so trimming tools cannot drop them.
func escapeAttr(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lead := len(s) - len(strings.TrimLeft(s, " "))
	trail := len(s) - len(strings.TrimRight(s, " "))
	if lead == len(s) {
		trail = 0
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\n':
			b.WriteString("&#10;")
		case '\r':
			b.WriteString("&#13;")
		case '\t':
			b.WriteString("&#9;")
		case ' ':
			if i < lead || i >= len(s)-trail {
				b.WriteString("&#32;")
			} else {
				b.WriteByte(' ')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
