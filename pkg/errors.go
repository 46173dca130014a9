package pkg

import (
	"errors"
	"fmt"
)

// Error carries an error code (one of the sentinels below) next to the original error,
// so callers can branch on the code with errors.Is while logs keep the full message.
type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is reports whether target is the error code of e.
func (e *Error) Is(target error) bool {
	return e.code != nil && e.code == target
}

func (e *Error) Code() error {
	return e.code
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

// Code returns the error code of err, or ErrInternalServerError if err does not carry one.
func Code(err error) error {
	var e *Error
	if errors.As(err, &e) && e.code != nil {
		return e.code
	}
	return ErrInternalServerError
}

var (
	ErrInternalServerError = errors.New("internal Server Error")
	ErrNotFound            = errors.New("your requested Item is not found")
	ErrBadParamInput       = errors.New("given Param is not valid")
	ErrCorruptIndex        = errors.New("index file is corrupt")
	ErrMissingStorage      = errors.New("storage file cannot be opened")
)

var MessageInternalServerError string = "internal server error"
