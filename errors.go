package inibind

import (
	"github.com/pkg/errors"
)

type formatError struct {
	cause error
}

// FormatError annotates an error as a format error: raw text that
// cannot be decoded under the destination type's literal grammar (a
// bad digit, an empty digit body, an unrecognized boolean token, an
// unknown locale or encoding name).  During binding, format errors
// are recovered locally: the affected field keeps its previous value.
func FormatError(err error) error {
	if err == nil {
		return nil
	}
	return formatError{
		cause: errors.WithStack(err),
	}
}

func (e formatError) Error() string { return e.cause.Error() }
func (e formatError) Unwrap() error { return e.cause }
func (e formatError) Cause() error  { return e.cause }
func (e formatError) Is(err error) bool {
	_, ok := err.(formatError)
	return ok
}

func IsFormatError(err error) bool {
	var f formatError
	return errors.Is(err, f)
}

type overflowError struct {
	cause error
}

// OverflowError annotates an error as an overflow: the literal decoded
// cleanly but does not fit the destination width.  Like format errors,
// overflows are recovered locally during binding.
func OverflowError(err error) error {
	if err == nil {
		return nil
	}
	return overflowError{
		cause: errors.WithStack(err),
	}
}

func (e overflowError) Error() string { return e.cause.Error() }
func (e overflowError) Unwrap() error { return e.cause }
func (e overflowError) Cause() error  { return e.cause }
func (e overflowError) Is(err error) bool {
	_, ok := err.(overflowError)
	return ok
}

func IsOverflowError(err error) bool {
	var o overflowError
	return errors.Is(err, o)
}

type unsupportedTypeError struct {
	cause error
}

// UnsupportedTypeError annotates an error as a registry miss that
// could not be repaired: no converter is registered for the type and
// no baseline converter can be synthesized for it.  Unlike format and
// overflow errors, this surfaces to the caller as a hard failure.
func UnsupportedTypeError(err error) error {
	if err == nil {
		return nil
	}
	return unsupportedTypeError{
		cause: errors.WithStack(err),
	}
}

func (e unsupportedTypeError) Error() string { return e.cause.Error() }
func (e unsupportedTypeError) Unwrap() error { return e.cause }
func (e unsupportedTypeError) Cause() error  { return e.cause }
func (e unsupportedTypeError) Is(err error) bool {
	_, ok := err.(unsupportedTypeError)
	return ok
}

func IsUnsupportedTypeError(err error) bool {
	var u unsupportedTypeError
	return errors.Is(err, u)
}

type argumentError struct {
	cause error
}

// ArgumentError annotates an error as a misuse of an API contract: a
// registry indexed with something other than a type, an attempt to
// register the string identity converter, a Format call handed a
// value of the wrong type.  These are hard failures.
func ArgumentError(err error) error {
	if err == nil {
		return nil
	}
	return argumentError{
		cause: errors.WithStack(err),
	}
}

func (e argumentError) Error() string { return e.cause.Error() }
func (e argumentError) Unwrap() error { return e.cause }
func (e argumentError) Cause() error  { return e.cause }
func (e argumentError) Is(err error) bool {
	_, ok := err.(argumentError)
	return ok
}

func IsArgumentError(err error) bool {
	var a argumentError
	return errors.Is(err, a)
}
