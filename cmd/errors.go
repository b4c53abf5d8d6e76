package cmd

import "fmt"

const (
	ExitOK        = 0
	ExitViolation = 1
	ExitArg       = 2
	ExitInput     = 3
	ExitConfig    = 4
	ExitInternal  = 5
)

// ExitError carries the process exit code. Kind is the stable error code
// used in machine-readable error events.
type ExitError struct {
	Code int
	Msg  string
	Kind string
	Path string
}

func (e *ExitError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Msg
}

func (e *ExitError) category() string {
	switch e.Code {
	case ExitArg:
		return "arg"
	case ExitInput:
		return "input"
	case ExitConfig:
		return "config"
	default:
		return "runtime"
	}
}
