package runtime

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoRuntimeAvailable = errors.New("no container runtime (docker or podman) available")
	ErrImageNotFound      = errors.New("no such image")
)

// InvocationError reports a runtime CLI call that could not be started or
// exited with a failure. Stderr carries the captured diagnostic output.
type InvocationError struct {
	Binary string
	Args   []string
	Stderr string
	Err    error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("command failed: %s %s", e.Binary, strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return msg + ": " + e.Stderr
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// MalformedHistoryError reports a history line that was not valid JSON.
type MalformedHistoryError struct {
	Line string
	Err  error
}

func (e *MalformedHistoryError) Error() string {
	return fmt.Sprintf("malformed history line %q: %v", e.Line, e.Err)
}

func (e *MalformedHistoryError) Unwrap() error {
	return e.Err
}
