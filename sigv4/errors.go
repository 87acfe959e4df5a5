package sigv4

import (
	"errors"

	"github.com/ethanadams/sigv4/internal/sigv4err"
)

// Error is the concrete error type every signing call returns on
// failure.
type Error = sigv4err.Error

// ErrorKind tags the category of a signing failure.
type ErrorKind = sigv4err.Kind

// Error kinds returned by every signing operation in this module.
const (
	InvalidParameter           = sigv4err.InvalidParameter
	ISOFormattingError         = sigv4err.ISOFormattingError
	InsufficientMemory         = sigv4err.InsufficientMemory
	HashError                  = sigv4err.HashError
	MaxHeaderPairCountExceeded = sigv4err.MaxHeaderPairCountExceeded
	MaxQueryPairCountExceeded  = sigv4err.MaxQueryPairCountExceeded
)

// KindOf reports the ErrorKind of err, if it (or something it wraps) is
// a *sigv4.Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
