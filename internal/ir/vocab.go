package ir

import (
	"fmt"
	"regexp"
	"strings"
)

// Element names.
const (
	TagTemplate = "ng-template"
	TagText     = "ng-text"
	TagChain    = "ng-chain"
	TagIf       = "ng-if"
	TagElseIf   = "ng-else-if"
	TagElse     = "ng-else"
	TagFor      = "ng-for"
	TagEmpty    = "ng-empty"
	TagSwitch   = "ng-switch"
	TagCase     = "ng-case"
	TagDefault  = "ng-default"
)

// Attribute names.
const (
	AttrRaw        = "raw"
	AttrCondition  = "condition"
	AttrVariable   = "variable"
	AttrItem       = "item"
	AttrCollection = "collection"
	AttrTrack      = "track"
	AttrVariables  = "variables"
	AttrExpression = "expression"
	AttrTrail      = "trail"
	AttrValue      = "value"
	AttrLead       = "lead"
)

// attrSpec lists the attributes an element accepts, required ones first.
type attrSpec struct {
	required []string
	optional []string
}

var vocabulary = map[string]attrSpec{
	TagTemplate: {},
	TagText:     {required: []string{AttrRaw}},
	TagChain:    {},
	TagIf:       {required: []string{AttrCondition}, optional: []string{AttrVariable}},
	TagElseIf:   {required: []string{AttrCondition}},
	TagElse:     {},
	TagFor:      {required: []string{AttrItem, AttrCollection, AttrTrack}, optional: []string{AttrVariables}},
	TagEmpty:    {},
	TagSwitch:   {required: []string{AttrExpression}, optional: []string{AttrTrail}},
	TagCase:     {required: []string{AttrValue}, optional: []string{AttrLead}},
	TagDefault:  {optional: []string{AttrLead}},
}

var identPattern = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$]*$`)

// valueRules constrain attribute values beyond presence. A rule returns a
// description of the problem, or "" when the value is acceptable.
var valueRules = map[string]func(string) string{
	AttrVariable: identifier,
	AttrItem:     identifier,
	AttrLead:     whitespace,
	AttrTrail:    whitespace,
}

func identifier(v string) string {
	if identPattern.MatchString(v) {
		return ""
	}
	return "must be an identifier"
}

func whitespace(v string) string {
	if strings.Trim(v, " \t\n\r\f") == "" {
		return ""
	}
	return "must contain only whitespace"
}

func (s attrSpec) allows(key string) bool {
	for _, k := range s.required {
		if k == key {
			return true
		}
	}
	for _, k := range s.optional {
		if k == key {
			return true
		}
	}
	return false
}

// Format selects the dialect the reformatter re-emits.
type Format int

const (
	// FormatMarkup is XML as written by the encoder, possibly re-indented.
	FormatMarkup Format = iota
	// FormatOutline is the flattened listing with one "[key]: value" line
	// per attribute and nesting by indentation.
	FormatOutline
)

func (f Format) String() string {
	switch f {
	case FormatMarkup:
		return "markup"
	case FormatOutline:
		return "outline"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a dialect name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markup", "xml":
		return FormatMarkup, nil
	case "outline", "unxml":
		return FormatOutline, nil
	}
	return 0, fmt.Errorf("unknown format %q (want markup or outline)", s)
}
