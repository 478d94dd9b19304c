package ctrlflow

import (
	"io"
	"strings"
)

// printer regenerates block syntax from a tree.
type printer struct {
	buf strings.Builder
}

// Print renders t back into control-flow template syntax. Each construct
// writes its own closing brace when its walk returns, so nesting is closed
// innermost first with exactly one brace per construct.
func Print(t *Template) string {
	var p printer
	p.printBody(t.Body)
	return p.buf.String()
}

// Fprint writes the rendering of t to w.
func Fprint(w io.Writer, t *Template) error {
	_, err := io.WriteString(w, Print(t))
	return err
}

func (p *printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *printer) printBody(body Body) {
	for _, n := range body {
		p.printNode(n)
	}
}

func (p *printer) printNode(n Node) {
	switch n := n.(type) {
	case *Text:
		p.write(n.Text)
	case *IfChain:
		p.printIfChain(n)
	case *ForLoop:
		p.printForLoop(n)
	case *SwitchBlock:
		p.printSwitch(n)
	}
}

// printIfChain outputs @if (...) { } @else if (...) { } @else { }.
func (p *printer) printIfChain(c *IfChain) {
	for i, b := range c.Branches {
		if i > 0 {
			p.write("} ")
		}
		switch b.Kind {
		case BranchIf:
			p.write("@if (")
			p.write(b.Condition)
			if b.Alias != "" {
				p.write("; as ")
				p.write(b.Alias)
			}
			p.write(") {")
		case BranchElseIf:
			p.write("@else if (")
			p.write(b.Condition)
			p.write(") {")
		case BranchElse:
			p.write("@else {")
		}
		p.printBody(b.Body)
	}
	p.write("}")
}

// printForLoop outputs @for (...) { } with an optional @empty section.
func (p *printer) printForLoop(f *ForLoop) {
	p.write("@for (")
	p.write(f.Item)
	p.write(" of ")
	p.write(f.Collection)
	p.write("; track ")
	p.write(f.Track)
	if f.Extra != "" {
		p.write("; ")
		p.write(f.Extra)
	}
	p.write(") {")
	p.printBody(f.Body)

	if f.HasEmpty {
		p.write("} @empty {")
		p.printBody(f.Empty)
	}
	p.write("}")
}

// printSwitch outputs @switch (...) { @case (...) { } @default { } }.
func (p *printer) printSwitch(s *SwitchBlock) {
	p.write("@switch (")
	p.write(s.Expression)
	p.write(") {")

	for _, c := range s.Cases {
		p.write(c.Lead)
		if c.Default {
			p.write("@default {")
		} else {
			p.write("@case (")
			p.write(c.Value)
			p.write(") {")
		}
		p.printBody(c.Body)
		p.write("}")
	}

	p.write(s.Trail)
	p.write("}")
}
