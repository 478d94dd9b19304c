package ctrlflow

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF   TokenType = iota // end of input
	TokenText                   // opaque text run
	TokenOpen                   // keyword header up to and including its {
	TokenClose                  // } closing the innermost construct
)

var tokenNames = map[TokenType]string{
	TokenEOF:   "EOF",
	TokenText:  "text",
	TokenOpen:  "opener",
	TokenClose: "'}'",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Kind identifies which keyword an opener token carries.
type Kind int

const (
	KindNone    Kind = iota
	KindIf           // @if (cond[; as name]) {
	KindElseIf       // } @else if (cond) {
	KindElse         // } @else {
	KindFor          // @for (item of coll; track t[; extra]) {
	KindEmpty        // } @empty {
	KindSwitch       // @switch (expr) {
	KindCase         // @case (value) {
	KindDefault      // @default {
)

var kindNames = map[Kind]string{
	KindIf:      "@if",
	KindElseIf:  "@else if",
	KindElse:    "@else",
	KindFor:     "@for",
	KindEmpty:   "@empty",
	KindSwitch:  "@switch",
	KindCase:    "@case",
	KindDefault: "@default",
}

// String returns the keyword as written in source.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsContinuation reports whether the keyword continues a construct whose
// previous section was just closed.
func (k Kind) IsContinuation() bool {
	return k == KindElseIf || k == KindElse || k == KindEmpty
}

// Params holds the opaque parameter substrings of an opener.
// Which fields are set depends on the opener kind.
type Params struct {
	Expr       string // condition, switch expression, or case value
	Alias      string // @if ...; as <Alias>
	Item       string
	Collection string
	Track      string
	Extra      string
}

// Token represents a lexical token.
type Token struct {
	Type   TokenType
	Kind   Kind   // set for TokenOpen
	Text   string // verbatim source for TokenText
	Params Params // set for TokenOpen
	// Joined is true when a continuation opener was fused with the } that
	// precedes it. A continuation with Joined false was found without a closer.
	Joined bool
	Pos    Position
}

// String returns a formatted token for debugging.
func (t Token) String() string {
	switch t.Type {
	case TokenText:
		return fmt.Sprintf("%s(%q)@%s", t.Type, t.Text, t.Pos)
	case TokenOpen:
		return fmt.Sprintf("%s(%s)@%s", t.Type, t.Kind, t.Pos)
	default:
		return fmt.Sprintf("%s@%s", t.Type, t.Pos)
	}
}

// Position represents a location in source.
type Position struct {
	File   string
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in runes
}

// String returns a formatted position string.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// keywords maps the word after @ to its opener kind. "else" is resolved into
// KindElse or KindElseIf by the lexer.
var keywords = map[string]Kind{
	"if":      KindIf,
	"else":    KindElse,
	"for":     KindFor,
	"empty":   KindEmpty,
	"switch":  KindSwitch,
	"case":    KindCase,
	"default": KindDefault,
}
