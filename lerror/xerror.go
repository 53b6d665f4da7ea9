package lerror

import (
	"errors"
	"fmt"
)

type (
	XError struct {
		Status  int //Http-like status, useful when the error crosses a REST boundary
		Code    int //LCode value
		Message string
	}
)

func (e *XError) Error() string {
	return fmt.Sprintf("Status code: %d, Error code: %d, Message: %s", e.Status, e.Code, e.Message)
}

func IsLError(err error) bool {
	e := &XError{}
	return errors.As(err, &e)
}

// Unwrap returns the first XError in the chain, nil if there is none
func Unwrap(err error) *XError {
	e := &XError{}
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Is reports whether err carries the given code
func Is(err error, code LCode) bool {
	e := Unwrap(err)
	return e != nil && e.Code == code.ToInt()
}
