package ir

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// attrLinePattern matches "[key]: value". The value may be empty.
var attrLinePattern = regexp.MustCompile(`^\[([^\]\s]+)\]:(?:[ \t](.*))?$`)

// parseOutline reads the flattened listing into an element tree:
//
//	ng-template
//	  ng-if
//	    [condition]: a &amp;&amp; b
//	    ng-text
//	      [raw]: x
//
// A tag line nests under the closest preceding tag line with smaller
// indentation. Attribute lines belong to the tag line above them whatever
// their own indentation. Values are still XML-escaped.
func parseOutline(text string) (*element, error) {
	type open struct {
		indent int
		el     *element
	}

	var (
		root    *element
		stack   []open
		current *element
	)

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		raw = strings.TrimRight(raw, " \t\r")
		content := strings.TrimLeft(raw, " \t")
		if content == "" {
			continue
		}
		indent := len(raw) - len(content)

		if strings.HasPrefix(content, "[") {
			if current == nil {
				return nil, decodeErrorf(lineNo, "", "attribute line before any element")
			}
			m := attrLinePattern.FindStringSubmatch(content)
			if m == nil {
				return nil, decodeErrorf(lineNo, current.name, "malformed attribute line %q", content)
			}
			if err := current.setAttr(m[1], html.UnescapeString(m[2]), lineNo); err != nil {
				return nil, err
			}
			continue
		}

		if j := strings.Index(content, " = "); j >= 0 {
			return nil, decodeErrorf(lineNo, content[:j], "unexpected text %q", content[j+3:])
		}
		if strings.ContainsAny(content, " \t") {
			return nil, decodeErrorf(lineNo, "", "malformed element line %q", content)
		}

		el := newElement(content, lineNo)
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			if root != nil {
				return nil, decodeErrorf(lineNo, el.name, "second root element after <%s>", root.name)
			}
			root = el
		} else {
			parent := stack[len(stack)-1].el
			parent.children = append(parent.children, el)
		}
		stack = append(stack, open{indent: indent, el: el})
		current = el
	}

	return root, nil
}
