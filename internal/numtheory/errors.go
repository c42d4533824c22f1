package numtheory

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a caller supplied value outside the
	// domain of an operation.
	ErrInvalidArgument = errors.New("numtheory: invalid argument")

	// ErrNotInvertible indicates that a value has no inverse for the modulus.
	ErrNotInvertible = errors.New("numtheory: value not invertible")

	// ErrSearchExhausted indicates that prime search gave up after its
	// configured number of restarts.
	ErrSearchExhausted = errors.New("numtheory: prime search exhausted")
)

// Error wraps an underlying error with the operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("numtheory.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// invalidf wraps ErrInvalidArgument with a formatted detail.
func invalidf(op string, format string, args ...interface{}) error {
	return &Error{
		Op:  op,
		Err: fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidArgument}, args...)...),
	}
}

// invariant panics when an internal invariant does not hold. It marks states
// that are unreachable unless the implementation itself is broken.
func invariant(ok bool, format string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf("numtheory: invariant violated: "+format, args...))
	}
}
