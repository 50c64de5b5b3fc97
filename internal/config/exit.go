package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// Exit codes used by Exit.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// UsageError marks a failure caused by bad flags, environment or settings
// rather than by the program itself.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// Usagef returns a UsageError with a formatted message.
func Usagef(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ExitCode maps err to a process exit code: ExitOK for nil or a help
// request, ExitUsage for a UsageError and ExitError otherwise.
func ExitCode(err error) int {
	var usage *UsageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return ExitOK
	case errors.As(err, &usage):
		return ExitUsage
	default:
		return ExitError
	}
}

// Exit reports err on stderr and terminates with ExitCode(err). A help
// request has already printed usage and exits quietly.
func Exit(err error) {
	os.Exit(report(os.Stderr, err))
}

func report(w io.Writer, err error) int {
	code := ExitCode(err)
	if code != ExitOK {
		fmt.Fprintln(w, err)
	}
	return code
}
