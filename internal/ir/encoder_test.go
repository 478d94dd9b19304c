package ir

import (
	"strings"
	"testing"

	"github.com/grindlemire/ngflow/internal/ctrlflow"
)

func TestEncode_Layout(t *testing.T) {
	tmpl, err := ctrlflow.Parse("a.html", `@if (a) {x}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<ng-template>
  <ng-chain>
    <ng-if
      condition="a">
      <ng-text
        raw="x"/>
    </ng-if>
  </ng-chain>
</ng-template>
`
	if got := Encode(tmpl); got != want {
		t.Errorf("Encode() =\n%s\nwant:\n%s", got, want)
	}
}

func TestEncode_OptionalAttributes(t *testing.T) {
	type tc struct {
		input   string
		present []string
		absent  []string
	}

	tests := map[string]tc{
		"if without alias": {
			input:  `@if (a) {x}`,
			absent: []string{AttrVariable + "="},
		},
		"if with alias": {
			input:   `@if (a; as b) {x}`,
			present: []string{`variable="b"`},
		},
		"for without extras or empty": {
			input:  `@for (x of xs; track x) {x}`,
			absent: []string{AttrVariables + "=", "<" + TagEmpty},
		},
		"for with empty clause and no body": {
			input:   `@for (x of xs; track x) {} @empty {}`,
			present: []string{"<" + TagEmpty + "/>"},
		},
		"switch without whitespace": {
			input:  `@switch (s) {@default {x}}`,
			absent: []string{AttrTrail + "=", AttrLead + "="},
		},
		"switch with whitespace": {
			input:   "@switch (s) {\n  @default {x}\n}",
			present: []string{`trail="&#10;"`, `lead="&#10;&#32;&#32;"`},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpl, err := ctrlflow.Parse("a.html", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := Encode(tmpl)
			for _, s := range tt.present {
				if !strings.Contains(got, s) {
					t.Errorf("Encode() missing %q:\n%s", s, got)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(got, s) {
					t.Errorf("Encode() unexpectedly contains %q:\n%s", s, got)
				}
			}
		})
	}
}

func TestEscapeAttr(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"plain":            {input: "a.b", want: "a.b"},
		"markup":           {input: `<a href="x">&</a>`, want: "&lt;a href=&quot;x&quot;&gt;&amp;&lt;/a&gt;"},
		"line breaks":      {input: "a\r\nb\tc", want: "a&#13;&#10;b&#9;c"},
		"edge spaces":      {input: "  a b  ", want: "&#32;&#32;a b&#32;&#32;"},
		"only spaces":      {input: "   ", want: "&#32;&#32;&#32;"},
		"space after tab":  {input: "\t x", want: "&#9; x"},
		"empty":            {input: "", want: ""},
		"unicode":          {input: "naïve → ok", want: "naïve → ok"},
		"existing entity":  {input: "&amp;", want: "&amp;amp;"},
		"numeric-ish text": {input: "&#10;", want: "&amp;#10;"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := escapeAttr(tt.input); got != tt.want {
				t.Errorf("escapeAttr(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncode_ValuesStayOnOneLine(t *testing.T) {
	tmpl := &ctrlflow.Template{Body: nested(5)}
	out := Encode(tmpl)

	for i, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "<") && !strings.Contains(trimmed, `="`) {
			t.Errorf("line %d is neither a tag nor an attribute: %q", i+1, line)
		}
	}
}

func TestEncode_CustomIndent(t *testing.T) {
	tmpl := &ctrlflow.Template{Body: ctrlflow.Body{text("x")}}
	got := Options{Indent: "\t"}.Encode(tmpl)

	want := "<ng-template>\n\t<ng-text\n\t\traw=\"x\"/>\n</ng-template>\n"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncode_EmptyTemplate(t *testing.T) {
	got := Encode(&ctrlflow.Template{})
	if got != "<ng-template/>\n" {
		t.Errorf("Encode() = %q, want %q", got, "<ng-template/>\n")
	}
}
