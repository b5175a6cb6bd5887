package sampler

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedOutput is returned when a sampler output file violates the
	// expected structure: missing header, non-numeric row, unknown motif id.
	ErrMalformedOutput = errors.New("malformed sampler output")
	// ErrMissingOutput is returned when an expected output file does not exist,
	// which means the tool itself did not run to completion.
	ErrMissingOutput = errors.New("missing sampler output")
	// ErrToolFailed is returned when an external binary exits unsuccessfully.
	ErrToolFailed = errors.New("sampler tool failed")
)

// OutputError describes where a sampler output file went wrong.
type OutputError struct {
	File   string
	Line   int // 0 when the error is not tied to a line
	Reason string
	Err    error // ErrMalformedOutput or ErrMissingOutput
}

func (e *OutputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%v: %s:%d: %s", e.Err, e.File, e.Line, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, e.File, e.Reason)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

func malformed(file string, line int, format string, args ...interface{}) error {
	return &OutputError{File: file, Line: line, Reason: fmt.Sprintf(format, args...), Err: ErrMalformedOutput}
}

func missing(file string, cause error) error {
	return &OutputError{File: file, Reason: cause.Error(), Err: ErrMissingOutput}
}
