package main

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	exitFailure = 1
	exitConfig  = 2
	exitFetch   = 3
)

// configError reports bad or missing command-line input.
type configError struct {
	error
}

func newConfigError(format string, args ...interface{}) error {
	return configError{errors.Errorf(format, args...)}
}

// fetchError reports a failed remote download.
type fetchError struct {
	error
}

func newFetchError(format string, args ...interface{}) error {
	return fetchError{errors.Errorf(format, args...)}
}

// parseError reports a malformed input row.
type parseError struct {
	Row int
	Err error
}

func newParseError(row int, err error) error {
	return &parseError{Row: row, Err: err}
}

func (e *parseError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// exitCode maps the root cause of err to a process exit status.
func exitCode(err error) int {
	switch errors.Cause(err).(type) {
	case configError:
		return exitConfig
	case fetchError:
		return exitFetch
	default:
		return exitFailure
	}
}
