package cli

import "errors"

// Process exit codes
const (
	ExitOK           = 0
	ExitFatal        = 1 // nothing useful was produced
	ExitTaskFailures = 2 // report written, one or more tasks failed
)

// ExitError carries an exit code out of a command
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps a command error to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFatal
}
