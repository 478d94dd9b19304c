package ctrlflow

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLexer_Tokens(t *testing.T) {
	type tc struct {
		input string
		want  []Token
	}

	tests := map[string]tc{
		"text only": {
			input: `<div class="a">hi</div>`,
			want: []Token{
				{Type: TokenText, Text: `<div class="a">hi</div>`},
				{Type: TokenEOF},
			},
		},
		"simple if": {
			input: `@if (a) {x}`,
			want: []Token{
				{Type: TokenOpen, Kind: KindIf, Params: Params{Expr: "a"}},
				{Type: TokenText, Text: "x"},
				{Type: TokenClose},
				{Type: TokenEOF},
			},
		},
		"if with alias": {
			input: `@if (user$ | async; as user) {}`,
			want: []Token{
				{Type: TokenOpen, Kind: KindIf, Params: Params{Expr: "user$ | async", Alias: "user"}},
				{Type: TokenClose},
				{Type: TokenEOF},
			},
		},
		"else fused with closer": {
			input: "@if (a) {x}\n  @else if (b) {y} @else {z}",
			want: []Token{
				{Type: TokenOpen, Kind: KindIf, Params: Params{Expr: "a"}},
				{Type: TokenText, Text: "x"},
				{Type: TokenOpen, Kind: KindElseIf, Params: Params{Expr: "b"}, Joined: true},
				{Type: TokenText, Text: "y"},
				{Type: TokenOpen, Kind: KindElse, Joined: true},
				{Type: TokenText, Text: "z"},
				{Type: TokenClose},
				{Type: TokenEOF},
			},
		},
		"for with track and extras": {
			input: `@for (item of items | keyvalue; let i = $index; track item.id; let odd = $odd) {}`,
			want: []Token{
				{Type: TokenOpen, Kind: KindFor, Params: Params{
					Item:       "item",
					Collection: "items | keyvalue",
					Track:      "item.id",
					Extra:      "let i = $index; let odd = $odd",
				}},
				{Type: TokenClose},
				{Type: TokenEOF},
			},
		},
		"empty fused with closer": {
			input: `@for (x of xs; track x) {a} @empty {b}`,
			want: []Token{
				{Type: TokenOpen, Kind: KindFor, Params: Params{Item: "x", Collection: "xs", Track: "x"}},
				{Type: TokenText, Text: "a"},
				{Type: TokenOpen, Kind: KindEmpty, Joined: true},
				{Type: TokenText, Text: "b"},
				{Type: TokenClose},
				{Type: TokenEOF},
			},
		},
		"switch cases": {
			input: `@switch (s) {@case (1) {A}@default {B}}`,
			want: []Token{
				{Type: TokenOpen, Kind: KindSwitch, Params: Params{Expr: "s"}},
				{Type: TokenOpen, Kind: KindCase, Params: Params{Expr: "1"}},
				{Type: TokenText, Text: "A"},
				{Type: TokenClose},
				{Type: TokenOpen, Kind: KindDefault},
				{Type: TokenText, Text: "B"},
				{Type: TokenClose},
				{Type: TokenClose},
				{Type: TokenEOF},
			},
		},
		"interpolation braces are text": {
			input: `@if (a) {{{ b }}}`,
			want: []Token{
				{Type: TokenOpen, Kind: KindIf, Params: Params{Expr: "a"}},
				{Type: TokenText, Text: "{{ b }}"},
				{Type: TokenClose},
				{Type: TokenEOF},
			},
		},
		"non-keyword at signs are text": {
			input: `mail me@example.com or @iffy @Input()`,
			want: []Token{
				{Type: TokenText, Text: `mail me@example.com or @iffy @Input()`},
				{Type: TokenEOF},
			},
		},
		"parens and quotes inside parameters": {
			input: `@if (fn(a, ")") && b == 'x;y') {}`,
			want: []Token{
				{Type: TokenOpen, Kind: KindIf, Params: Params{Expr: `fn(a, ")") && b == 'x;y'`}},
				{Type: TokenClose},
				{Type: TokenEOF},
			},
		},
		"detached else": {
			input: `<p>@else {x}</p>`,
			want: []Token{
				{Type: TokenText, Text: "<p>"},
				{Type: TokenOpen, Kind: KindElse},
				{Type: TokenText, Text: "x"},
				{Type: TokenClose},
				{Type: TokenText, Text: "</p>"},
				{Type: TokenEOF},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Tokenize("test.html", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(Token{}, "Pos")); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	input := "<ul>\n  @for (x of xs; track x) {\n    <li>{{ x }}</li>\n  } @empty {none}\n</ul>"

	tokens, err := Tokenize("list.html", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type want struct {
		typ    TokenType
		kind   Kind
		offset int
		line   int
		column int
	}
	expected := []want{
		{TokenText, KindNone, 0, 1, 1},
		{TokenOpen, KindFor, 7, 2, 3},
		{TokenText, KindNone, 32, 2, 28},
		{TokenOpen, KindEmpty, 56, 4, 3},
		{TokenText, KindNone, 66, 4, 13},
		{TokenClose, KindNone, 70, 4, 17},
		{TokenText, KindNone, 71, 4, 18},
		{TokenEOF, KindNone, 77, 5, 6},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(expected), tokens)
	}
	for i, w := range expected {
		tok := tokens[i]
		if tok.Type != w.typ || tok.Kind != w.kind {
			t.Errorf("token %d = %s, want type %s kind %s", i, tok, w.typ, w.kind)
		}
		if tok.Pos.Offset != w.offset || tok.Pos.Line != w.line || tok.Pos.Column != w.column {
			t.Errorf("token %d position = offset %d %d:%d, want offset %d %d:%d",
				i, tok.Pos.Offset, tok.Pos.Line, tok.Pos.Column, w.offset, w.line, w.column)
		}
		if tok.Pos.File != "list.html" {
			t.Errorf("token %d File = %q, want list.html", i, tok.Pos.File)
		}
	}
}

func TestLexer_Errors(t *testing.T) {
	type tc struct {
		input      string
		wantOffset int
	}

	tests := map[string]tc{
		"unterminated parameter list": {
			input:      `<b>@if (a && (b) {x}`,
			wantOffset: 7,
		},
		"unterminated string in parameters": {
			input:      `@switch (mode == "list) {}`,
			wantOffset: 8,
		},
		"missing parenthesis": {
			input:      `@if a {x}`,
			wantOffset: 4,
		},
		"missing brace": {
			input:      `@if (a) x}`,
			wantOffset: 8,
		},
		"brace missing at end of input": {
			input:      `@default`,
			wantOffset: 8,
		},
		"for without track": {
			input:      `@for (x of xs) {}`,
			wantOffset: 5,
		},
		"for without of": {
			input:      `@for (xs; track x) {}`,
			wantOffset: 5,
		},
		"for with two tracks": {
			input:      `@for (x of xs; track x; track y) {}`,
			wantOffset: 5,
		},
		"if with unknown parameter": {
			input:      `@if (a; let b) {}`,
			wantOffset: 4,
		},
		"empty condition": {
			input:      `@if ( ) {}`,
			wantOffset: 4,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Tokenize("test.html", tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *LexError, got %T: %v", err, err)
			}
			if lexErr.Pos.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d (%v)", lexErr.Pos.Offset, tt.wantOffset, err)
			}
		})
	}
}

func TestSplitParams(t *testing.T) {
	type tc struct {
		input string
		want  []string
	}

	tests := map[string]tc{
		"single":            {input: " a ", want: []string{"a"}},
		"two":               {input: "a; as b", want: []string{"a", "as b"}},
		"trailing":          {input: "a;", want: []string{"a"}},
		"nested call":       {input: "f(a; b); c", want: []string{"f(a; b)", "c"}},
		"quoted semicolon":  {input: `"a;b"; c`, want: []string{`"a;b"`, "c"}},
		"escaped quote":     {input: `'it\'s;'; c`, want: []string{`'it\'s;'`, "c"}},
		"object literal":    {input: "{a: 1; b: 2}; c", want: []string{"{a: 1; b: 2}", "c"}},
		"only whitespace":   {input: "  ", want: nil},
		"bracketed indexer": {input: "xs[i;j]", want: []string{"xs[i;j]"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := splitParams(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("splitParams(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}
