package nexus

import (
	"errors"
	"fmt"
)

// Exit codes for the different outcomes of a command.
const (
	ExitOK           = 0
	ExitError        = 1 // runtime failure
	ExitUsage        = 2 // bad flags or arguments
	ExitNothingFound = 3 // ran fine, produced no result
)

// ErrNothingFound marks a successful run with an empty result.
var ErrNothingFound = errors.New("nothing found")

// UsageError wraps mistakes in how a command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}
