package ctrlflow

import "fmt"

// LexError reports malformed keyword syntax.
type LexError struct {
	Pos     Position
	Message string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("%s: lex error at offset %d: %s", e.Pos, e.Pos.Offset, e.Message)
}

func lexErrorf(pos Position, format string, args ...any) *LexError {
	return &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Reason names a nesting violation.
type Reason string

const (
	ReasonUnclosedConstruct    Reason = "unclosed-construct"
	ReasonUnmatchedCloser      Reason = "unmatched-closer"
	ReasonDanglingContinuation Reason = "dangling-continuation"
	ReasonBranchAfterElse      Reason = "branch-after-else"
	ReasonEmptyWithoutLoop     Reason = "empty-without-loop"
	ReasonDuplicateEmpty       Reason = "duplicate-empty"
	ReasonMisplacedCase        Reason = "misplaced-case"
	ReasonDuplicateDefault     Reason = "duplicate-default"
	ReasonContentInSwitch      Reason = "content-in-switch"
)

// StructureError reports a nesting violation found by the block parser.
type StructureError struct {
	Pos    Position
	Reason Reason
	Detail string // optional context, e.g. which construct is unclosed
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	msg := fmt.Sprintf("%s: structure error at offset %d: %s", e.Pos, e.Pos.Offset, e.Reason)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}
