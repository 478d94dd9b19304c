// Package ir converts control-flow trees to and from the intermediate XML
// representation handed to an external reformatter.
//
// Every construct becomes an element from a fixed ng-* vocabulary with one
// attribute per line and explicit close tags, so any tool with a generic
// element/attribute model can re-indent it without knowing what it means.
// Two re-emitted dialects can be decoded: markup (XML as written, possibly
// re-indented or with reordered attributes) and outline (the flattened
// "name / [key]: value" listing produced by unxml-style tools).
package ir
