// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package frameloop

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrRuntimeAbsent is returned when the VR runtime failed to initialize.
	ErrRuntimeAbsent = errors.New("failed to initialize the VR runtime library")

	// ErrHMDNotDetected is returned when no head mounted display was found.
	ErrHMDNotDetected = errors.New("head mounted display not detected")

	// ErrHMDDisabled is returned when the display was found but is not enabled.
	ErrHMDDisabled = errors.New("the head mounted display is not enabled")

	// ErrShouldQuit is returned when the runtime asks the application to exit.
	ErrShouldQuit = errors.New("session status requested quit")

	// ErrNotRunning is returned by Frame outside of StateRunning.
	ErrNotRunning = errors.New("frame loop is not running")
)

// RuntimeError is a failing runtime call with the runtime's own error detail.
type RuntimeError struct {
	Message string
	Info    ErrorInfo
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s.\nMessage: %s (Error code=%d)", e.Message, e.Info.ErrorString, e.Info.Result)
}

// sentinelError is a *RuntimeError whose cause is one of the package
// sentinels, so errors.Cause still matches it.
type sentinelError struct {
	*RuntimeError
	cause error
}

func (e *sentinelError) Cause() error  { return e.cause }
func (e *sentinelError) Unwrap() error { return e.cause }

// Status is the outcome of one frame.
type Status int

const (
	// StatusOK means the frame was rendered and shown.
	StatusOK Status = iota
	// StatusNotVisible means the frame was submitted but not shown. Drawing
	// is skipped on the next frame; polling and submission continue.
	StatusNotVisible
	// StatusFatal means the session has been torn down. The accompanying
	// error holds the reason.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotVisible:
		return "not-visible"
	default:
		return "fatal"
	}
}

// checkResult turns a failing result into a *RuntimeError, logging and
// reporting it. Successful results, including ResultNotVisible, return nil.
func (c *Coordinator) checkResult(r Result, message string) error {
	if !r.Failed() {
		return nil
	}
	err := c.runtimeError(r, message)
	c.fatal(message, err)
	return err
}

// failWith reports the failing result r under title and returns an error
// whose cause is sentinel.
func (c *Coordinator) failWith(r Result, title string, sentinel error) error {
	err := &sentinelError{RuntimeError: c.runtimeError(r, sentinel.Error()), cause: sentinel}
	c.fatal(title, err)
	return err
}

func (c *Coordinator) runtimeError(r Result, message string) *RuntimeError {
	info := c.rt.LastError()
	if info.Result == ResultSuccess {
		info.Result = r
	}
	return &RuntimeError{Message: message, Info: info}
}

// fatal logs err and surfaces it through the reporter.
func (c *Coordinator) fatal(title string, err error) {
	Logger().Error("fatal runtime error", "title", title, "err", err.Error())
	c.cfg.Reporter.ReportFatal(title, err.Error())
}
