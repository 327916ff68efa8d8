// Package corerr defines the error kinds used across the encoder and
// simplifier. It stays on stdlib errors/fmt, the same ambient error
// handling used across the rest of this module.
package corerr

import "fmt"

// Kind classifies an Error.
type Kind int

const (
	// Unimplemented: opcode not supported by the encoder.
	Unimplemented Kind = iota
	// InvalidArgument: sort/width mismatch at a boundary call.
	InvalidArgument
	// Internal: a solver-level failure (a recovered solver panic or a
	// failed check).
	Internal
	// NotFound: a predicate or query references a node not in the
	// encoded function.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Unimplemented:
		return "Unimplemented"
	case InvalidArgument:
		return "InvalidArgument"
	case Internal:
		return "Internal"
	case NotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Error is a kinded error with a one-line diagnostic.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(k Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Unimplementedf reports an opcode the encoder does not support,
// carrying the node's printable form.
func Unimplementedf(format string, args ...interface{}) *Error {
	return New(Unimplemented, format, args...)
}

func InvalidArgumentf(format string, args ...interface{}) *Error {
	return New(InvalidArgument, format, args...)
}

func Internalf(format string, args ...interface{}) *Error {
	return New(Internal, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return New(NotFound, format, args...)
}

// IsKind reports whether err is a *Error of kind k.
func IsKind(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}
