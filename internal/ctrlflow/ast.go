package ctrlflow

// Node is the interface implemented by all tree nodes.
type Node interface {
	node()         // marker method to ensure type safety
	Pos() Position // returns the source position of the node
}

// Body is an ordered sequence of text runs and nested constructs.
type Body []Node

// Template is the root sequence of a parsed template.
type Template struct {
	Filename string
	Body     Body
}

// Text is a verbatim span of markup, literals or whitespace.
type Text struct {
	Text     string
	Position Position
}

func (t *Text) node()         {}
func (t *Text) Pos() Position { return t.Position }

// BranchKind distinguishes the branches of a conditional chain.
type BranchKind int

const (
	BranchIf BranchKind = iota
	BranchElseIf
	BranchElse
)

// String returns the keyword that opens the branch.
func (k BranchKind) String() string {
	switch k {
	case BranchIf:
		return "@if"
	case BranchElseIf:
		return "@else if"
	case BranchElse:
		return "@else"
	default:
		return "branch"
	}
}

// IfChain is an @if block and its @else if / @else continuations.
type IfChain struct {
	Branches []*IfBranch
	Position Position
}

func (c *IfChain) node()         {}
func (c *IfChain) Pos() Position { return c.Position }

// IfBranch is one section of an IfChain.
type IfBranch struct {
	Kind      BranchKind
	Condition string // empty for BranchElse
	Alias     string // "; as name" binding, first branch only
	Body      Body
	Position  Position
}

// ForLoop is an @for block with an optional @empty section.
type ForLoop struct {
	Item       string
	Collection string
	Track      string
	Extra      string // extra bindings, e.g. "let i = $index"
	Body       Body
	HasEmpty   bool
	Empty      Body
	Position   Position
}

func (f *ForLoop) node()         {}
func (f *ForLoop) Pos() Position { return f.Position }

// SwitchBlock is an @switch block holding @case and @default sections.
type SwitchBlock struct {
	Expression string
	Cases      []*SwitchCase
	Trail      string // whitespace before the closing }
	Position   Position
}

func (s *SwitchBlock) node()         {}
func (s *SwitchBlock) Pos() Position { return s.Position }

// DefaultCase returns the @default section, or nil.
func (s *SwitchBlock) DefaultCase() *SwitchCase {
	for _, c := range s.Cases {
		if c.Default {
			return c
		}
	}
	return nil
}

// SwitchCase is an @case or @default section.
type SwitchCase struct {
	Value    string // empty when Default
	Default  bool
	Lead     string // whitespace before the @case / @default keyword
	Body     Body
	Position Position
}
