package rsa

import (
	"fmt"

	"infobez-lab-rsa/internal/numtheory"
)

var (
	// ErrInvalidArgument indicates a caller supplied value outside the domain
	// of an operation. It is the same value as numtheory.ErrInvalidArgument so
	// a single errors.Is check covers both packages.
	ErrInvalidArgument = numtheory.ErrInvalidArgument

	// ErrSearchExhausted indicates that prime search or gcd resampling gave
	// up after its configured bound.
	ErrSearchExhausted = numtheory.ErrSearchExhausted
)

// Error wraps an underlying error with the operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rsa.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidf(op string, format string, args ...interface{}) error {
	return &Error{
		Op:  op,
		Err: fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidArgument}, args...)...),
	}
}

// invariant panics when a mathematically guaranteed property does not hold.
func invariant(ok bool, format string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf("rsa: invariant violated: "+format, args...))
	}
}
