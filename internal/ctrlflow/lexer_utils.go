package ctrlflow

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywordAt reports whether source[i:] starts with a recognized @keyword.
// The keyword must not run into further identifier characters, so "@iffy"
// and "@format" stay opaque text.
func keywordAt(source string, i int) (Kind, bool) {
	if i >= len(source) || source[i] != '@' {
		return KindNone, false
	}
	kind, ok := keywords[wordAt(source, i+1)]
	return kind, ok
}

// continuationAt reports whether the text at i, after optional whitespace,
// is @else or @empty. It returns the offset of the @.
func continuationAt(source string, i int) (int, bool) {
	at := skipSpace(source, i)
	kind, ok := keywordAt(source, at)
	if !ok || (kind != KindElse && kind != KindEmpty) {
		return 0, false
	}
	return at, true
}

// wordAt returns the identifier starting at i, or "".
func wordAt(source string, i int) string {
	end := i
	for end < len(source) {
		r, size := utf8.DecodeRuneInString(source[end:])
		if !isIdentChar(r) {
			break
		}
		end += size
	}
	return source[i:end]
}

// skipSpace returns the offset of the first non-whitespace byte at or after i.
func skipSpace(source string, i int) int {
	for i < len(source) && isSpace(rune(source[i])) {
		i++
	}
	return i
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isIdentChar(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// kindWord returns the word after @ for an opener kind as it appears in source.
func kindWord(kind Kind) string {
	switch kind {
	case KindElse, KindElseIf:
		return "else"
	default:
		return strings.TrimPrefix(kind.String(), "@")
	}
}

var (
	forHeadPattern = regexp.MustCompile(`^([\p{L}_$][\p{L}\p{N}_$]*)\s+of\s+([\s\S]+)$`)
	trackPattern   = regexp.MustCompile(`^track\s+([\s\S]+)$`)
	aliasPattern   = regexp.MustCompile(`^as\s+([\p{L}_$][\p{L}\p{N}_$]*)$`)
)

// parseParams interprets the text between an opener's parentheses.
// Expressions are kept as opaque, trimmed substrings.
func parseParams(kind Kind, text string, pos Position) (Params, error) {
	switch kind {
	case KindIf:
		parts := splitParams(text)
		if len(parts) == 0 {
			return Params{}, lexErrorf(pos, "%s requires a condition", kind)
		}
		p := Params{Expr: parts[0]}
		switch len(parts) {
		case 1:
		case 2:
			m := aliasPattern.FindStringSubmatch(parts[1])
			if m == nil {
				return Params{}, lexErrorf(pos, "unrecognized %s parameter %q", kind, parts[1])
			}
			p.Alias = m[1]
		default:
			return Params{}, lexErrorf(pos, "too many %s parameters", kind)
		}
		return p, nil

	case KindFor:
		return parseForParams(text, pos)

	default:
		expr := strings.TrimSpace(text)
		if expr == "" {
			return Params{}, lexErrorf(pos, "%s requires an expression", kind)
		}
		return Params{Expr: expr}, nil
	}
}

// parseForParams splits "item of items; track item.id; let i = $index".
// The track parameter may appear anywhere after the first; every other
// parameter is an extra binding.
func parseForParams(text string, pos Position) (Params, error) {
	parts := splitParams(text)
	if len(parts) == 0 {
		return Params{}, lexErrorf(pos, "@for requires \"<item> of <collection>\"")
	}

	m := forHeadPattern.FindStringSubmatch(parts[0])
	if m == nil {
		return Params{}, lexErrorf(pos, "malformed @for expression %q, expected \"<item> of <collection>\"", parts[0])
	}
	p := Params{Item: m[1], Collection: strings.TrimSpace(m[2])}

	var extras []string
	hasTrack := false
	for _, part := range parts[1:] {
		if t := trackPattern.FindStringSubmatch(part); t != nil {
			if hasTrack {
				return Params{}, lexErrorf(pos, "@for has more than one track expression")
			}
			p.Track = strings.TrimSpace(t[1])
			hasTrack = true
			continue
		}
		extras = append(extras, part)
	}
	if !hasTrack {
		return Params{}, lexErrorf(pos, "@for requires a track expression")
	}
	p.Extra = strings.Join(extras, "; ")
	return p, nil
}

// splitParams splits a parameter list at top-level semicolons. Semicolons
// inside quotes or brackets do not split. Empty parameters are dropped.
func splitParams(text string) []string {
	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	var quote rune
	escaped := false
	depth, start := 0, 0
	for i, c := range text {
		switch {
		case escaped:
			escaped = false
		case quote != 0:
			if c == '\\' {
				escaped = true
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ';' && depth == 0:
			add(text[start:i])
			start = i + 1
		}
	}
	add(text[start:])
	return parts
}
