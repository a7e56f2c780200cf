package icd9

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCode marks a string that cannot be read as a code at all.
	ErrMalformedCode = errors.New("malformed icd9 code")
	// ErrInvalidCode marks a well-formed code outside the ICD-9 space, e.g. V99.
	ErrInvalidCode = errors.New("invalid icd9 code")
	// ErrUndefinedCode marks a valid code that is not a defined (real) code.
	// Callers treat it as a warning.
	ErrUndefinedCode = errors.New("undefined icd9 code")
	// ErrRangeKindMismatch marks a range whose endpoints are of different kinds.
	ErrRangeKindMismatch = errors.New("range endpoints differ in kind")
	// ErrRangeOrder marks a range whose start sorts after its end.
	ErrRangeOrder = errors.New("range start after end")
)

// CodeError reports a problem with a single raw code.
type CodeError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Err, e.Raw, e.Reason)
}

func (e *CodeError) Unwrap() error {
	return e.Err
}

func codeErr(raw string, err error, reason string) error {
	return &CodeError{Raw: raw, Reason: reason, Err: err}
}

// RangeError reports a range that cannot be built or expanded.
type RangeError struct {
	Start string
	End   string
	Err   error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range %s-%s: %s", e.Start, e.End, e.Err)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}
