// Package sigv4err defines the error kinds shared by every signing
// component. It exists separately from the root sigv4 package so that
// internal packages (canonheader, canonquery, canonreq, isodate, ...)
// can return typed errors without importing the root package.
package sigv4err

import "fmt"

// Kind tags the category of a signing failure. Kind values carry no
// embedded detail beyond the tag itself; callers that need more should
// inspect the wrapped cause via errors.Unwrap.
type Kind int

const (
	// InvalidParameter marks a required input that was missing,
	// zero-length, or exceeded a stated maximum.
	InvalidParameter Kind = iota + 1
	// ISOFormattingError marks date content that parsed but was
	// out-of-range or failed a format-character match.
	ISOFormattingError
	// InsufficientMemory marks an output or processing buffer that
	// could not hold the next byte or the precalculated final layout.
	InsufficientMemory
	// HashError marks a caller-supplied hash interface call that
	// returned a non-nil error.
	HashError
	// MaxHeaderPairCountExceeded marks a header block with more pairs
	// than the configured limit.
	MaxHeaderPairCountExceeded
	// MaxQueryPairCountExceeded marks a query string with more pairs
	// than the configured limit.
	MaxQueryPairCountExceeded
)

// Error satisfies the error interface so a bare Kind can be used as an
// errors.Is target, e.g. errors.Is(err, sigv4err.InvalidParameter).
func (k Kind) Error() string { return k.String() }

func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "InvalidParameter"
	case ISOFormattingError:
		return "ISOFormattingError"
	case InsufficientMemory:
		return "InsufficientMemory"
	case HashError:
		return "HashError"
	case MaxHeaderPairCountExceeded:
		return "MaxHeaderPairCountExceeded"
	case MaxQueryPairCountExceeded:
		return "MaxQueryPairCountExceeded"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every signing component.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sigv4: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("sigv4: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, sigv4err.InvalidParameter) style matching
// against a bare Kind value.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Kind == k
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an *Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that carries cause as its Unwrap target.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}
