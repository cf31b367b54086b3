package calc

import "errors"

// Kind classifies why an operation refused its input.
type Kind string

// InvalidArgument means a supplied argument violates a precondition.
const InvalidArgument Kind = "InvalidArgument"

// Error is the error type returned by calc operations. Error()
// returns Message unchanged so callers can surface it verbatim.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is reports whether target is a *Error with the same kind and
// message, which lets errors.Is match copies of the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// ErrDivideByZero is returned by Divide when the divisor is zero.
var ErrDivideByZero = &Error{
	Kind:    InvalidArgument,
	Message: "cannot divide by zero",
}

// KindOf returns the Kind of the first *Error in err's chain, or ""
// if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
