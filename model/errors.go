package model

import (
	"errors"
	"fmt"
)

var (
	// ErrCoercion indicates a coordinate value could not be converted to a
	// finite float64.
	ErrCoercion = errors.New("cannot coerce coordinate to float")
	// ErrShape indicates a value did not provide exactly three coordinate
	// components.
	ErrShape = errors.New("coordinates must have three components")
)

// CoercionError describes a single coordinate that failed conversion.
type CoercionError struct {
	Axis  string // "x", "y", "z" or "" when unknown
	Value any
	Err   error // underlying cause, may be nil
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("%v: value %#v", ErrCoercion, e.Value)
	if e.Axis != "" {
		msg = fmt.Sprintf("%v: axis %s value %#v", ErrCoercion, e.Axis, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap lets errors.Is match both ErrCoercion and the underlying cause.
func (e *CoercionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCoercion}
	}
	return []error{ErrCoercion, e.Err}
}
