// Package errs defines the error taxonomy shared by the scanline packages.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers wrap these with fmt.Errorf and test with errors.Is.
var (
	// ErrInvalidArgument reports bad constructor or setter input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDimensionMismatch reports incompatible vector or matrix sizes.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrParse reports malformed mesh source.
	ErrParse = errors.New("parse error")

	// ErrIndexOutOfRange reports out-of-bounds element access.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ParseError describes a malformed line in a mesh source.
type ParseError struct {
	Line int    // 1-based line number, 0 if unknown
	Msg  string // what was wrong
	Err  error  // underlying cause, may be nil
}

func (e *ParseError) Error() string {
	s := "parse error"
	if e.Line > 0 {
		s = fmt.Sprintf("parse error on line %d", e.Line)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both ErrParse and the underlying cause to errors.Is.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// Invalid returns an error wrapping ErrInvalidArgument.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Mismatch returns an error wrapping ErrDimensionMismatch.
func Mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDimensionMismatch, fmt.Sprintf(format, args...))
}

// OutOfRange returns an error wrapping ErrIndexOutOfRange.
func OutOfRange(index, length int) error {
	return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, length)
}
