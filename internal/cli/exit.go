package cli

import "github.com/CodexForgeBR/tripfix/internal/exitcode"

// ExitError carries a process exit code out of a command. Commands return
// it for pipeline outcomes; any other error means exitcode.Error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return exitcode.Name(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
