// Package ctrlflow parses and regenerates Angular-style block control flow
// (@if / @else if / @else, @for / @empty, @switch / @case / @default).
//
// The pipeline consists of:
//   - [Lexer]: splits source into opaque text, keyword openers and closers
//   - [Parser]: matches every closer to the innermost open construct with an
//     explicit frame stack and builds a [Template] tree
//   - [Print]: walks the tree and emits block syntax, one closing brace per
//     construct
//
// Text outside keyword headers is carried through byte for byte. Conditions,
// collections and other expressions are kept as opaque strings.
package ctrlflow
