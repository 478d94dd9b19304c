package ctrlflow

import (
	"strings"
)

type frameKind int

const (
	frameChain frameKind = iota
	frameLoop
	frameSwitch
	frameCase
)

// frame is one open construct awaiting its closing brace.
type frame struct {
	kind  frameKind
	chain *IfChain
	loop  *ForLoop
	sw    *SwitchBlock
	cas   *SwitchCase
	pos   Position

	// pending collects whitespace seen directly inside a switch until it
	// becomes the Lead of the next case or the Trail of the switch.
	pending string
}

// body returns the sequence the frame is currently appending to.
func (f *frame) body() *Body {
	switch f.kind {
	case frameChain:
		return &f.chain.Branches[len(f.chain.Branches)-1].Body
	case frameLoop:
		if f.loop.HasEmpty {
			return &f.loop.Empty
		}
		return &f.loop.Body
	case frameCase:
		return &f.cas.Body
	}
	return nil
}

func (f *frame) describe() string {
	switch f.kind {
	case frameChain:
		return f.chain.Branches[len(f.chain.Branches)-1].Kind.String()
	case frameLoop:
		if f.loop.HasEmpty {
			return "@empty"
		}
		return "@for"
	case frameSwitch:
		return "@switch"
	case frameCase:
		if f.cas.Default {
			return "@default"
		}
		return "@case"
	}
	return "block"
}

// Parser builds a control-flow tree from the lexer's token stream.
type Parser struct {
	lexer *Lexer
	root  Body
	stack []*frame
}

// NewParser creates a new Parser for the given lexer.
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// Parse scans and parses source into a Template.
func Parse(filename, source string) (*Template, error) {
	return NewParser(NewLexer(filename, source)).Parse()
}

// Parse consumes the whole token stream. It stops at the first lexical or
// structural error.
func (p *Parser) Parse() (*Template, error) {
	for {
		tok, err := p.lexer.Next()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case TokenEOF:
			if f := p.top(); f != nil {
				return nil, &StructureError{
					Pos:    f.pos,
					Reason: ReasonUnclosedConstruct,
					Detail: f.describe() + " is never closed",
				}
			}
			return &Template{Filename: p.lexer.filename, Body: p.root}, nil
		case TokenText:
			err = p.text(tok)
		case TokenOpen:
			err = p.open(tok)
		case TokenClose:
			err = p.close(tok)
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *Parser) push(f *frame) {
	p.stack = append(p.stack, f)
}

func (p *Parser) pop() *frame {
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

// appendNode adds n to the innermost open body, or to the root.
func (p *Parser) appendNode(n Node) {
	f := p.top()
	if f == nil {
		p.root = append(p.root, n)
		return
	}
	b := f.body()
	*b = append(*b, n)
}

func (p *Parser) text(tok Token) error {
	if f := p.top(); f != nil && f.kind == frameSwitch {
		if strings.TrimSpace(tok.Text) != "" {
			return &StructureError{Pos: tok.Pos, Reason: ReasonContentInSwitch, Detail: "only @case and @default may appear in @switch"}
		}
		f.pending += tok.Text
		return nil
	}
	p.appendNode(&Text{Text: tok.Text, Position: tok.Pos})
	return nil
}

func (p *Parser) open(tok Token) error {
	if tok.Kind.IsContinuation() {
		return p.continuation(tok)
	}

	f := p.top()
	inSwitch := f != nil && f.kind == frameSwitch

	switch tok.Kind {
	case KindCase, KindDefault:
		if !inSwitch {
			return &StructureError{Pos: tok.Pos, Reason: ReasonMisplacedCase, Detail: tok.Kind.String() + " outside @switch"}
		}
		if tok.Kind == KindDefault && f.sw.DefaultCase() != nil {
			return &StructureError{Pos: tok.Pos, Reason: ReasonDuplicateDefault}
		}
		c := &SwitchCase{
			Value:    tok.Params.Expr,
			Default:  tok.Kind == KindDefault,
			Lead:     f.pending,
			Position: tok.Pos,
		}
		f.pending = ""
		p.push(&frame{kind: frameCase, cas: c, pos: tok.Pos})
		return nil
	}

	if inSwitch {
		return &StructureError{Pos: tok.Pos, Reason: ReasonContentInSwitch, Detail: tok.Kind.String() + " directly inside @switch"}
	}

	switch tok.Kind {
	case KindIf:
		chain := &IfChain{Position: tok.Pos}
		chain.Branches = append(chain.Branches, &IfBranch{
			Kind:      BranchIf,
			Condition: tok.Params.Expr,
			Alias:     tok.Params.Alias,
			Position:  tok.Pos,
		})
		p.push(&frame{kind: frameChain, chain: chain, pos: tok.Pos})
	case KindFor:
		p.push(&frame{kind: frameLoop, pos: tok.Pos, loop: &ForLoop{
			Item:       tok.Params.Item,
			Collection: tok.Params.Collection,
			Track:      tok.Params.Track,
			Extra:      tok.Params.Extra,
			Position:   tok.Pos,
		}})
	case KindSwitch:
		p.push(&frame{kind: frameSwitch, pos: tok.Pos, sw: &SwitchBlock{
			Expression: tok.Params.Expr,
			Position:   tok.Pos,
		}})
	}
	return nil
}

// continuation handles "} @else if", "} @else" and "} @empty". The fused }
// closed the current section of the innermost frame, which stays open.
func (p *Parser) continuation(tok Token) error {
	dangling := ReasonDanglingContinuation
	if tok.Kind == KindEmpty {
		dangling = ReasonEmptyWithoutLoop
	}

	if !tok.Joined {
		return &StructureError{Pos: tok.Pos, Reason: dangling, Detail: tok.Kind.String() + " must follow the closing brace of its block"}
	}

	f := p.top()
	if f == nil {
		return &StructureError{Pos: tok.Pos, Reason: ReasonUnmatchedCloser}
	}

	switch tok.Kind {
	case KindElseIf, KindElse:
		if f.kind != frameChain {
			return &StructureError{Pos: tok.Pos, Reason: dangling, Detail: tok.Kind.String() + " after " + f.describe()}
		}
		last := f.chain.Branches[len(f.chain.Branches)-1]
		if last.Kind == BranchElse {
			return &StructureError{Pos: tok.Pos, Reason: ReasonBranchAfterElse}
		}
		b := &IfBranch{Kind: BranchElse, Position: tok.Pos}
		if tok.Kind == KindElseIf {
			b.Kind = BranchElseIf
			b.Condition = tok.Params.Expr
		}
		f.chain.Branches = append(f.chain.Branches, b)
	case KindEmpty:
		if f.kind != frameLoop {
			return &StructureError{Pos: tok.Pos, Reason: dangling, Detail: "@empty after " + f.describe()}
		}
		if f.loop.HasEmpty {
			return &StructureError{Pos: tok.Pos, Reason: ReasonDuplicateEmpty}
		}
		f.loop.HasEmpty = true
	}
	return nil
}

// close pops the innermost frame and attaches its node to the parent.
func (p *Parser) close(tok Token) error {
	if len(p.stack) == 0 {
		return &StructureError{Pos: tok.Pos, Reason: ReasonUnmatchedCloser}
	}

	f := p.pop()
	switch f.kind {
	case frameChain:
		p.appendNode(f.chain)
	case frameLoop:
		p.appendNode(f.loop)
	case frameSwitch:
		f.sw.Trail = f.pending
		p.appendNode(f.sw)
	case frameCase:
		parent := p.top()
		parent.sw.Cases = append(parent.sw.Cases, f.cas)
	}
	return nil
}
