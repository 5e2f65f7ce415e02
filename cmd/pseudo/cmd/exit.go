package cmd

import (
	"errors"
	"fmt"
)

// exitError is returned by check to signal a specific exit code.
// 0=clean, 1=drift, 2=error.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.code == 0:
		return ""
	case e.code == 1:
		return "pseudo-code drifted from snapshot"
	default:
		return fmt.Sprintf("check error (exit %d)", e.code)
	}
}

func (e exitError) Unwrap() error { return e.err }

// ExitCode extracts the exit code from an exitError.
// Returns -1 if the error is not an exitError.
func ExitCode(err error) int {
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}
