package markup

import (
	"errors"
	"fmt"
)

// ErrNotScene is returned by the LoadScene functions when the root element
// does not produce a scene.
var ErrNotScene = errors.New("root element is not a scene")

// ErrUnknownRoot is returned when the root tag has no registered constructor.
var ErrUnknownRoot = errors.New("unknown root element")

// Error reports a failure to load one markup source.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("markup: %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
