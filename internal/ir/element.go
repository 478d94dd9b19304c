package ir

import (
	"strings"

	"github.com/grindlemire/ngflow/internal/ctrlflow"
)

// element is the dialect-independent tree both decoders produce.
type element struct {
	name     string
	attrs    map[string]string
	line     int
	children []*element
}

func newElement(name string, line int) *element {
	return &element{name: name, attrs: make(map[string]string), line: line}
}

// setAttr records an attribute, rejecting a repeated key.
func (el *element) setAttr(key, value string, line int) error {
	if _, ok := el.attrs[key]; ok {
		return decodeErrorf(line, el.name, "duplicate attribute %q", key)
	}
	el.attrs[key] = value
	return nil
}

// builder maps an element tree onto a control-flow tree. Attribute values
// are found by key, so their order in the reformatted text is irrelevant.
type builder struct{}

func (b builder) template(root *element) (*ctrlflow.Template, error) {
	if root == nil {
		return nil, decodeErrorf(0, "", "no <%s> element found", TagTemplate)
	}
	if root.name != TagTemplate {
		return nil, decodeErrorf(root.line, root.name, "root element must be <%s>", TagTemplate)
	}
	if err := b.checkAttrs(root); err != nil {
		return nil, err
	}
	body, err := b.body(root.children, root.name)
	if err != nil {
		return nil, err
	}
	return &ctrlflow.Template{Body: body}, nil
}

// checkAttrs verifies el carries every required attribute with a usable
// value and nothing the vocabulary does not define for it. The encoder never
// writes an empty required value, so one here means the reformatter damaged
// the input. Only raw text may legitimately be empty.
func (b builder) checkAttrs(el *element) error {
	def := vocabulary[el.name]
	for _, key := range def.required {
		v, ok := el.attrs[key]
		if !ok {
			return decodeErrorf(el.line, el.name, "missing required attribute %q", key)
		}
		if key != AttrRaw && strings.TrimSpace(v) == "" {
			return decodeErrorf(el.line, el.name, "required attribute %q is empty", key)
		}
	}
	for key := range el.attrs {
		if !def.allows(key) {
			return decodeErrorf(el.line, el.name, "unknown attribute %q", key)
		}
	}
	for _, keys := range [][]string{def.required, def.optional} {
		for _, key := range keys {
			v, ok := el.attrs[key]
			if !ok {
				continue
			}
			if rule := valueRules[key]; rule != nil {
				if problem := rule(v); problem != "" {
					return decodeErrorf(el.line, el.name, "attribute %q %s", key, problem)
				}
			}
		}
	}
	return nil
}

func (b builder) body(children []*element, parent string) (ctrlflow.Body, error) {
	var body ctrlflow.Body
	for _, child := range children {
		n, err := b.node(child, parent)
		if err != nil {
			return nil, err
		}
		body = append(body, n)
	}
	return body, nil
}

func (b builder) node(el *element, parent string) (ctrlflow.Node, error) {
	if _, ok := vocabulary[el.name]; !ok {
		return nil, decodeErrorf(el.line, el.name, "unrecognized tag")
	}

	switch el.name {
	case TagText:
		if err := b.leaf(el); err != nil {
			return nil, err
		}
		return &ctrlflow.Text{Text: el.attrs[AttrRaw]}, nil
	case TagChain:
		return b.chain(el)
	case TagFor:
		return b.forLoop(el)
	case TagSwitch:
		return b.switchBlock(el)
	}
	return nil, decodeErrorf(el.line, el.name, "not allowed inside <%s>", parent)
}

func (b builder) leaf(el *element) error {
	if err := b.checkAttrs(el); err != nil {
		return err
	}
	if len(el.children) > 0 {
		return decodeErrorf(el.children[0].line, el.name, "must not have child elements")
	}
	return nil
}

func (b builder) chain(el *element) (*ctrlflow.IfChain, error) {
	if err := b.checkAttrs(el); err != nil {
		return nil, err
	}
	if len(el.children) == 0 {
		return nil, decodeErrorf(el.line, el.name, "needs an <%s> branch", TagIf)
	}

	chain := &ctrlflow.IfChain{}
	for i, child := range el.children {
		var kind ctrlflow.BranchKind
		switch child.name {
		case TagIf:
			if i != 0 {
				return nil, decodeErrorf(child.line, child.name, "must be the first branch of <%s>", TagChain)
			}
			kind = ctrlflow.BranchIf
		case TagElseIf:
			kind = ctrlflow.BranchElseIf
		case TagElse:
			if i != len(el.children)-1 {
				return nil, decodeErrorf(child.line, child.name, "must be the last branch of <%s>", TagChain)
			}
			kind = ctrlflow.BranchElse
		default:
			if _, ok := vocabulary[child.name]; !ok {
				return nil, decodeErrorf(child.line, child.name, "unrecognized tag")
			}
			return nil, decodeErrorf(child.line, child.name, "not allowed inside <%s>", TagChain)
		}
		if i == 0 && kind != ctrlflow.BranchIf {
			return nil, decodeErrorf(child.line, child.name, "first branch of <%s> must be <%s>", TagChain, TagIf)
		}
		if err := b.checkAttrs(child); err != nil {
			return nil, err
		}

		body, err := b.body(child.children, child.name)
		if err != nil {
			return nil, err
		}
		chain.Branches = append(chain.Branches, &ctrlflow.IfBranch{
			Kind:      kind,
			Condition: child.attrs[AttrCondition],
			Alias:     child.attrs[AttrVariable],
			Body:      body,
		})
	}
	return chain, nil
}

func (b builder) forLoop(el *element) (*ctrlflow.ForLoop, error) {
	if err := b.checkAttrs(el); err != nil {
		return nil, err
	}
	loop := &ctrlflow.ForLoop{
		Item:       el.attrs[AttrItem],
		Collection: el.attrs[AttrCollection],
		Track:      el.attrs[AttrTrack],
		Extra:      el.attrs[AttrVariables],
	}

	children := el.children
	if n := len(children); n > 0 && children[n-1].name == TagEmpty {
		empty := children[n-1]
		if err := b.checkAttrs(empty); err != nil {
			return nil, err
		}
		body, err := b.body(empty.children, empty.name)
		if err != nil {
			return nil, err
		}
		loop.HasEmpty = true
		loop.Empty = body
		children = children[:n-1]
	}

	for _, child := range children {
		if child.name == TagEmpty {
			return nil, decodeErrorf(child.line, child.name, "must be the last child of <%s>", TagFor)
		}
	}
	body, err := b.body(children, el.name)
	if err != nil {
		return nil, err
	}
	loop.Body = body
	return loop, nil
}

func (b builder) switchBlock(el *element) (*ctrlflow.SwitchBlock, error) {
	if err := b.checkAttrs(el); err != nil {
		return nil, err
	}
	sw := &ctrlflow.SwitchBlock{
		Expression: el.attrs[AttrExpression],
		Trail:      el.attrs[AttrTrail],
	}

	for _, child := range el.children {
		c := &ctrlflow.SwitchCase{}
		switch child.name {
		case TagCase:
		case TagDefault:
			if sw.DefaultCase() != nil {
				return nil, decodeErrorf(child.line, child.name, "more than one <%s> in <%s>", TagDefault, TagSwitch)
			}
			c.Default = true
		default:
			if _, ok := vocabulary[child.name]; !ok {
				return nil, decodeErrorf(child.line, child.name, "unrecognized tag")
			}
			return nil, decodeErrorf(child.line, child.name, "not allowed inside <%s>", TagSwitch)
		}
		if err := b.checkAttrs(child); err != nil {
			return nil, err
		}

		body, err := b.body(child.children, child.name)
		if err != nil {
			return nil, err
		}
		c.Value = child.attrs[AttrValue]
		c.Lead = child.attrs[AttrLead]
		c.Body = body
		sw.Cases = append(sw.Cases, c)
	}
	return sw, nil
}
