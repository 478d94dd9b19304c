package ir

import (
	"fmt"

	"github.com/grindlemire/ngflow/internal/ctrlflow"
)

// Decode parses reformatter output in the given dialect back into a tree.
// Decoded nodes carry zero positions.
func Decode(format Format, text string) (*ctrlflow.Template, error) {
	var (
		root *element
		err  error
	)
	switch format {
	case FormatMarkup:
		root, err = parseMarkup(text)
	case FormatOutline:
		root, err = parseOutline(text)
	default:
		return nil, fmt.Errorf("decode: unsupported format %v", format)
	}
	if err != nil {
		return nil, err
	}
	return builder{}.template(root)
}
