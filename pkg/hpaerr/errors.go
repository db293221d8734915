// Package hpaerr defines the error taxonomy shared by every layer of the
// pathfinder: invalid arguments are returned errors, missing paths are an
// empty (not erroring) result at the query layer, and invariant violations
// are fatal programming errors that panic rather than propagate.
package hpaerr

import "fmt"

// ErrInvalidArgument is the sentinel wrapped by every invalid-argument
// error, so callers can test with errors.Is regardless of the message.
var ErrInvalidArgument = fmt.Errorf("invalid argument")

// InvalidArgument reports a caller error: bad dimensions, an out-of-bounds
// endpoint, a cluster size too small to tile the grid. It is surfaced
// immediately, before any graph is built or any search runs.
type InvalidArgument struct {
	Msg string
}

func (e *InvalidArgument) Error() string { return e.Msg }

func (e *InvalidArgument) Unwrap() error { return ErrInvalidArgument }

// NewInvalidArgument builds an InvalidArgument with a formatted message.
func NewInvalidArgument(format string, args ...any) *InvalidArgument {
	return &InvalidArgument{Msg: fmt.Sprintf(format, args...)}
}

// InvariantViolation denotes a defect in the engine itself — an id out of
// range, an edge added from a node that was never created. There is no
// recovery policy for it: the caller is expected to let it panic and, at an
// outer boundary such as an HTTP handler, recover and report a 500 rather
// than attempt to continue with a corrupted graph.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return "internal invariant violation: " + e.Msg }

// Violate panics with an InvariantViolation built from the formatted message.
func Violate(format string, args ...any) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}
