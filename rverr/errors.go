// Package rverr provides the error type used by the simulator's
// collaborators: the program loader, the memory map composer, the
// regression runner and the CLI driver. It is deliberately not used
// inside the hart package, where a failed operation is an architectural
// trap recorded in the Hart's CSRs, not a Go error.
package rverr

import "fmt"

// Errno identifies a specific kind of error.
type Errno int

// Values holds the arguments substituted into a Errno's message format.
type Values []interface{}

// HartError is the error type returned by rvhart's collaborator packages.
type HartError struct {
	Errno  Errno
	Values Values
}

// New creates a HartError for errno, formatted with values.
func New(errno Errno, values ...interface{}) HartError {
	return HartError{Errno: errno, Values: values}
}

func (e HartError) Error() string {
	return fmt.Sprintf(messages[e.Errno], e.Values...)
}

// Is reports whether err is a HartError with the given Errno, so callers
// can use errors.Is(err, rverr.New(SomeErrno)) without caring about Values.
func (e HartError) Is(target error) bool {
	t, ok := target.(HartError)
	return ok && e.Errno == t.Errno
}
