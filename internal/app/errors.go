package app

import "syl-lint/internal/fsutil"

// FilesystemError is returned for any stat, listing or read failure other
// than a missing file target.
type FilesystemError = fsutil.FilesystemError

type ConfigErr struct {
	Msg string
	Err error
}

func (e *ConfigErr) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ConfigErr) Unwrap() error { return e.Err }

type ArgErr struct{ Msg string }

func (e *ArgErr) Error() string { return e.Msg }
