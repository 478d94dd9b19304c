package ir

import "fmt"

// DecodeError reports reformatter output that does not describe a valid tree.
// Line is 1-based and zero when unknown. Tag is the element being decoded,
// if any.
type DecodeError struct {
	Line    int
	Tag     string
	Message string
}

func (e *DecodeError) Error() string {
	switch {
	case e.Line > 0 && e.Tag != "":
		return fmt.Sprintf("line %d: <%s>: %s", e.Line, e.Tag, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	case e.Tag != "":
		return fmt.Sprintf("<%s>: %s", e.Tag, e.Message)
	}
	return e.Message
}

func decodeErrorf(line int, tag, format string, args ...any) *DecodeError {
	return &DecodeError{Line: line, Tag: tag, Message: fmt.Sprintf(format, args...)}
}
