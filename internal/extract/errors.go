package extract

import (
	"errors"
	"fmt"
)

// ErrMalformedInput matches every *MalformedInputError under errors.Is.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError reports a code fence left open at end of input.
// It is fatal for the document: no Document and no findings are produced.
type MalformedInputError struct {
	Path string

	// Line is the 1-based line of the opening fence.
	Line int

	// Marker is the opening fence run, e.g. "```" or "~~~~".
	Marker string
}

func (e *MalformedInputError) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	return fmt.Sprintf("%s:%d: unterminated code fence %q", path, e.Line, e.Marker)
}

// Is makes errors.Is(err, ErrMalformedInput) true for any MalformedInputError.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}
