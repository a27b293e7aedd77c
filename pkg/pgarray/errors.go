package pgarray

import (
	"errors"
	"fmt"
)

var ErrMalformedArray = errors.New("malformed array literal")
var ErrCoercion = errors.New("cannot coerce array element")
var ErrUnorderable = errors.New("array elements are not mutually orderable")

// ParseError reports textual array input that could not be tokenized
// unambiguously.
type ParseError struct {
	Input  string
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse array %q at offset %d: %s", e.Input, e.Pos, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformedArray }

// CoercionError reports a single element that failed its declared scalar
// conversion.
type CoercionError struct {
	Element any
	Kind    Kind
	Err     error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("coerce %v to %s: %v", e.Element, e.Kind, e.Err)
}

func (e *CoercionError) Unwrap() error { return ErrCoercion }
