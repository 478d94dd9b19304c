package ir

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// parseMarkup reads re-emitted XML into an element tree. Indentation, blank
// lines, comments, XML declarations and attribute placement are ignored.
func parseMarkup(text string) (*element, error) {
	z := html.NewTokenizer(strings.NewReader(text))

	var (
		root  *element
		stack []*element
		line  = 1
	)

	attach := func(el *element) error {
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, el)
			return nil
		}
		if root != nil {
			return decodeErrorf(el.line, el.name, "second root element after <%s>", root.name)
		}
		root = el
		return nil
	}

	for {
		tt := z.Next()
		start := line
		line += bytes.Count(z.Raw(), []byte{'\n'})

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, decodeErrorf(start, "", "malformed markup: %v", err)
			}
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				return nil, decodeErrorf(open.line, open.name, "element is never closed")
			}
			return root, nil

		case html.TextToken:
			if s := strings.TrimSpace(string(z.Text())); s != "" {
				return nil, decodeErrorf(start, currentName(stack), "unexpected text %q", s)
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			el := newElement(string(name), start)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if err := el.setAttr(string(key), string(val), start); err != nil {
					return nil, err
				}
			}
			if err := attach(el); err != nil {
				return nil, err
			}
			if tt == html.StartTagToken {
				stack = append(stack, el)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if len(stack) == 0 {
				return nil, decodeErrorf(start, string(name), "close tag without matching open tag")
			}
			open := stack[len(stack)-1]
			if open.name != string(name) {
				return nil, decodeErrorf(start, string(name), "close tag does not match open <%s> from line %d", open.name, open.line)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func currentName(stack []*element) string {
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1].name
}
