package gateway

import (
	"errors"
	"fmt"
)

// Error classes returned by RunQuery. Test with errors.Is.
var (
	// ErrConnection reports that no store connection could be established:
	// bad URI, unknown scheme, unreachable store or rejected credentials.
	ErrConnection = errors.New("connection error")

	// ErrQueryExecution reports that the store rejected the statement or
	// could not begin executing it.
	ErrQueryExecution = errors.New("query execution error")

	// ErrRowDecode reports that a row could not be decoded. No rows are
	// returned when this happens.
	ErrRowDecode = errors.New("row decode error")
)

// Error is the failure returned by RunQuery. It matches its class sentinel
// and the underlying driver error.
type Error struct {
	Class error
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Class, e.Stage, e.Err)
}

// Unwrap exposes both the class sentinel and the cause.
func (e *Error) Unwrap() []error {
	return []error{e.Class, e.Err}
}

// Stage returns the stage name of a gateway error, or "" for other errors.
func Stage(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Stage
	}
	return ""
}

func newError(class error, stage string, err error) *Error {
	return &Error{Class: class, Stage: stage, Err: err}
}
