package core

import (
	"errors"
	"fmt"
)

// MissingDataError reports a required tiapp.xml structure that is absent.
type MissingDataError struct {
	Project string
	Field   string
}

func (e *MissingDataError) Error() string {
	if e.Project == "" {
		return fmt.Sprintf("project descriptor is missing %s", e.Field)
	}
	return fmt.Sprintf("project %s: tiapp.xml is missing %s", e.Project, e.Field)
}

// NoEligibleTargetsError is returned when resolution found neither simulators nor devices.
type NoEligibleTargetsError struct {
	Project string
}

func (e *NoEligibleTargetsError) Error() string {
	if e.Project == "" {
		return "no simulator or device matches the project deployment targets"
	}
	return fmt.Sprintf("no simulator or device matches the deployment targets of %s", e.Project)
}

// InvocationError reports a build that failed to start or exited non-zero.
type InvocationError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *InvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// AssertionError aborts the current user action with a message.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string { return e.Msg }

// Assert returns an *AssertionError carrying the formatted message when cond is false.
func Assert(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return &AssertionError{Msg: fmt.Sprintf(format, args...)}
}

var ErrBuildInFlight = errors.New("a build is already running")
