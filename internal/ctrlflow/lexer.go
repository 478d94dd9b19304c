package ctrlflow

import (
	"unicode/utf8"
)

// Lexer splits template source into opaque text runs, keyword openers and
// block closers.
type Lexer struct {
	filename string
	source   string
	pos      int  // current position in source
	readPos  int  // next position to read
	ch       rune // current character
	line     int  // current line (1-based)
	column   int  // current column (1-based)

	// depths holds one counter per open construct (plus the root) of the
	// text braces opened inside it. A } only closes a construct when the
	// innermost counter is zero.
	depths []int
}

// NewLexer creates a new Lexer for the given source.
func NewLexer(filename, source string) *Lexer {
	l := &Lexer{
		filename: filename,
		source:   source,
		line:     1,
		column:   1,
		depths:   []int{0},
	}
	l.load()
	return l
}

// Tokenize scans the whole source and returns its tokens, ending with TokenEOF.
func Tokenize(filename, source string) ([]Token, error) {
	l := NewLexer(filename, source)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// load decodes the rune at readPos into ch.
func (l *Lexer) load() {
	l.pos = l.readPos
	if l.readPos >= len(l.source) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.source[l.readPos:])
	l.ch = r
	l.readPos += size
}

// readChar advances to the next character in the source.
func (l *Lexer) readChar() {
	if l.atEOF() {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.load()
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.source)
}

// advanceTo moves forward until pos reaches offset.
func (l *Lexer) advanceTo(offset int) {
	for l.pos < offset && !l.atEOF() {
		l.readChar()
	}
}

// position returns the current Position for tokens and errors.
func (l *Lexer) position() Position {
	return Position{
		File:   l.filename,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) pushDepth() {
	l.depths = append(l.depths, 0)
}

func (l *Lexer) popDepth() {
	if len(l.depths) > 1 {
		l.depths = l.depths[:len(l.depths)-1]
	}
}

func (l *Lexer) top() *int {
	return &l.depths[len(l.depths)-1]
}

// Next returns the next token from the source.
func (l *Lexer) Next() (Token, error) {
	if l.atEOF() {
		return Token{Type: TokenEOF, Pos: l.position()}, nil
	}

	if l.ch == '}' && *l.top() == 0 {
		return l.readCloser()
	}

	if l.ch == '@' {
		if kind, ok := keywordAt(l.source, l.pos); ok {
			return l.readOpener(kind, false)
		}
	}

	return l.readText(), nil
}

// readText consumes opaque text up to the next closer, keyword or EOF.
func (l *Lexer) readText() Token {
	start := l.position()

scan:
	for !l.atEOF() {
		switch l.ch {
		case '{':
			*l.top()++
		case '}':
			if *l.top() == 0 {
				break scan
			}
			*l.top()--
		case '@':
			if _, ok := keywordAt(l.source, l.pos); ok {
				break scan
			}
		}
		l.readChar()
	}

	return Token{
		Type: TokenText,
		Text: l.source[start.Offset:l.pos],
		Pos:  start,
	}
}

// readCloser consumes a construct-closing } and, when it is followed by
// @else or @empty, the continuation header as well.
func (l *Lexer) readCloser() (Token, error) {
	pos := l.position()
	l.readChar() // consume }
	l.popDepth()

	if at, ok := continuationAt(l.source, l.pos); ok {
		l.advanceTo(at)
		kind, _ := keywordAt(l.source, l.pos)
		tok, err := l.readOpener(kind, true)
		if err != nil {
			return Token{}, err
		}
		tok.Pos = pos
		return tok, nil
	}

	return Token{Type: TokenClose, Pos: pos}, nil
}

// readOpener consumes @keyword, its parameter list and the opening {.
func (l *Lexer) readOpener(kind Kind, joined bool) (Token, error) {
	pos := l.position()
	l.advanceTo(l.pos + 1 + len(kindWord(kind))) // consume @ and the keyword

	tok := Token{Type: TokenOpen, Kind: kind, Joined: joined, Pos: pos}

	if kind == KindElse {
		after := skipSpace(l.source, l.pos)
		if wordAt(l.source, after) == "if" {
			l.advanceTo(after + len("if"))
			kind = KindElseIf
			tok.Kind = kind
		}
	}

	switch kind {
	case KindIf, KindElseIf, KindFor, KindSwitch, KindCase:
		l.skipWhitespace()
		inner, err := l.readParams(kind)
		if err != nil {
			return Token{}, err
		}
		params, err := parseParams(kind, inner.text, inner.pos)
		if err != nil {
			return Token{}, err
		}
		tok.Params = params
	}

	l.skipWhitespace()
	if l.ch != '{' || l.atEOF() {
		return Token{}, lexErrorf(l.position(), "expected { after %s", kind)
	}
	l.readChar()
	l.pushDepth()

	return tok, nil
}

type paramList struct {
	text string
	pos  Position // position of the opening (
}

// readParams consumes a parenthesized parameter list and returns the text
// between the parentheses. Nested parentheses and quoted strings are skipped
// over so that their contents cannot end the list.
func (l *Lexer) readParams(kind Kind) (paramList, error) {
	open := l.position()
	if l.ch != '(' || l.atEOF() {
		return paramList{}, lexErrorf(open, "expected ( after %s", kind)
	}
	l.readChar()
	start := l.pos

	depth := 1
	var quote rune
	for !l.atEOF() {
		c := l.ch
		if quote != 0 {
			if c == '\\' {
				l.readChar()
			} else if c == quote {
				quote = 0
			}
		} else {
			switch c {
			case '\'', '"', '`':
				quote = c
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					text := l.source[start:l.pos]
					l.readChar()
					return paramList{text: text, pos: open}, nil
				}
			}
		}
		l.readChar()
	}

	return paramList{}, lexErrorf(open, "unterminated parameter list for %s", kind)
}

func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && isSpace(l.ch) {
		l.readChar()
	}
}
