package reformat

import (
	"fmt"
	"strings"
)

// ToolError reports a reformatter run that did not produce usable output.
type ToolError struct {
	Command  []string
	ExitCode int // -1 when the process did not exit normally
	Stderr   string
	TimedOut bool
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "reformatter %q", strings.Join(e.Command, " "))
	switch {
	case e.TimedOut:
		fmt.Fprintf(&b, " %v", e.Err)
	case e.ExitCode > 0:
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	default:
		fmt.Fprintf(&b, " failed: %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		b.WriteString(": ")
		b.WriteString(s)
	}
	return b.String()
}

func (e *ToolError) Unwrap() error { return e.Err }
