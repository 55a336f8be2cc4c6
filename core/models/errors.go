package models

import (
	"errors"
	"fmt"
)

var (
	ErrSourceMissing = errors.New("source file is not set or does not exist")
	ErrNotScript     = errors.New("source file is not a python script")
	ErrRunInProgress = errors.New("a packaging run is already in progress")
)

// ParseError reports that a script could not be read or parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to analyze %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SpawnError reports that the packaging process could not be started or its
// output could not be read.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to run packaging tool: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ToolExitError reports a non-zero exit code from the packaging tool.
type ToolExitError struct {
	ExitCode int
}

func (e *ToolExitError) Error() string {
	return fmt.Sprintf("packaging tool failed (code %d)", e.ExitCode)
}
