package errors

import (
	stderrors "errors"
	"fmt"
	"reflect"
)

type Error interface {
	error
	New(args ...any) BaseError
}

type BaseError struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`

	messageFormat string
}

func (e BaseError) Error() string {
	return e.Message
}

// New renders the message format with args and returns a copy, the registered error is left untouched.
func (e *BaseError) New(args ...any) BaseError {

	rendered := *e
	rendered.Message = fmt.Sprintf(e.messageFormat, args...)
	return rendered
}

// Is reports whether target carries the same error code, so errors.Is works through wrapping.
func (e BaseError) Is(target error) bool {

	switch t := target.(type) {
	case BaseError:
		return e.Code == t.Code
	case *BaseError:
		return t != nil && e.Code == t.Code
	default:
		return false
	}
}

func (e BaseError) IsNil() bool {
	return reflect.ValueOf(e).IsZero()
}

func TryAssertError(err error) (BaseError, bool) {

	var asserted BaseError
	ok := stderrors.As(err, &asserted)
	return asserted, ok
}

func IsError(err error, expectedError BaseError) bool {

	asserted, ok := TryAssertError(err)
	if !ok {
		return false
	}

	return asserted.Code == expectedError.Code && asserted.Message == expectedError.Message
}

// HasCode reports whether err is a BaseError with the given code regardless of its message.
func HasCode(err error, code int) bool {

	asserted, ok := TryAssertError(err)
	return ok && asserted.Code == code
}

func new(errorCode int, name string, messageFormat string) Error {

	return &BaseError{Code: errorCode, Name: name, Message: messageFormat, messageFormat: messageFormat}
}
