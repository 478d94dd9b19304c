package ir

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/grindlemire/ngflow/internal/ctrlflow"
)

var treeOpts = cmp.Options{
	cmpopts.IgnoreTypes(ctrlflow.Position{}),
	cmpopts.EquateEmpty(),
}

// toOutline flattens encoded markup the way unxml does, with attributes in
// reverse key order so decoding cannot rely on their position.
func toOutline(t *testing.T, markup string) string {
	t.Helper()
	root, err := parseMarkup(markup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sb strings.Builder
	var walk func(el *element, depth int)
	walk = func(el *element, depth int) {
		indent := strings.Repeat("  ", depth)
		sb.WriteString(indent)
		sb.WriteString(el.name)

		keys := make([]string, 0, len(el.attrs))
		for k := range el.attrs {
			keys = append(keys, k)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
		for _, k := range keys {
			sb.WriteString("\n" + indent + "  [" + k + "]: " + escapeAttr(el.attrs[k]))
		}
		sb.WriteString("\n")

		for _, c := range el.children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return sb.String()
}

// reflowMarkup removes indentation, puts every start tag and its attributes
// on one line, and inserts blank lines between elements.
func reflowMarkup(markup string) string {
	var lines []string
	for _, l := range strings.Split(markup, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if !strings.HasPrefix(l, "<") && len(lines) > 0 {
			lines[len(lines)-1] += " " + l
			continue
		}
		lines = append(lines, l)
	}
	return strings.Join(lines, "\n\n")
}

func text(s string) *ctrlflow.Text {
	return &ctrlflow.Text{Text: s}
}

// nested builds a tree that alternates chains, loops and switches down to
// the given depth, with awkward text at every level.
func nested(depth int) ctrlflow.Body {
	if depth == 0 {
		return ctrlflow.Body{text("leaf & <b class=\"q\">{{ v }}</b>\n\t ")}
	}
	inner := nested(depth - 1)

	var n ctrlflow.Node
	switch depth % 3 {
	case 1:
		n = &ctrlflow.IfChain{Branches: []*ctrlflow.IfBranch{
			{Kind: ctrlflow.BranchIf, Condition: "a > 1 && b", Alias: "res", Body: inner},
			{Kind: ctrlflow.BranchElseIf, Condition: `c === "x"`, Body: ctrlflow.Body{text(" else-if ")}},
			{Kind: ctrlflow.BranchElse, Body: ctrlflow.Body{text("\n")}},
		}}
	case 2:
		n = &ctrlflow.ForLoop{
			Item:       "row",
			Collection: "rows | slice:0:5",
			Track:      "row.id",
			Extra:      "let i = $index; let odd = $odd",
			Body:       inner,
			HasEmpty:   true,
			Empty:      ctrlflow.Body{text("  none  ")},
		}
	default:
		n = &ctrlflow.SwitchBlock{
			Expression: "mode",
			Cases: []*ctrlflow.SwitchCase{
				{Value: "'a'", Lead: "\n  ", Body: inner},
				{Default: true, Lead: " ", Body: ctrlflow.Body{text("d")}},
			},
			Trail: "\n",
		}
	}
	return ctrlflow.Body{text("\n  <div>"), n, text("</div>  ")}
}
