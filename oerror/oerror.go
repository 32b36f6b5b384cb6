package oerror

import "fmt"

// Error is the error type used for defects that should never occur at runtime, such as
// an unknown custom movement mode reaching the physics dispatch.
type Error struct {
	Err string
}

// New returns a new Error with the message formatted from the arguments passed.
func New(format string, args ...any) *Error {
	if len(args) == 0 {
		return &Error{Err: format}
	}
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Err
}
