package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent generation failures.
// File-level errors (ParseError, IOError) wrap one of these sentinels so
// callers can classify them with errors.Is.
var (
	// ErrNotFound indicates a requested module or document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse indicates a source file is not structurally valid Python.
	ErrParse = errors.New("parse error")

	// ErrIO indicates a path could not be read or written.
	ErrIO = errors.New("i/o error")

	// ErrSourceRootMissing indicates the configured source root does not exist.
	ErrSourceRootMissing = errors.New("source root does not exist")

	// ErrFilesFailed indicates at least one source file failed during a run.
	// The run itself completed; output was written for every other file.
	ErrFilesFailed = errors.New("one or more files failed")

	// ErrDocsOutOfDate indicates the documents on disk differ from what a run would produce.
	ErrDocsOutOfDate = errors.New("documentation is out of date")

	// ErrSecretsFound indicates the secret scanner reported high-severity findings.
	ErrSecretsFound = errors.New("high-severity secrets found")
)

// ParseError reports a source file that is not structurally valid.
// It aborts extraction for that file only.
type ParseError struct {
	// Path is the source path relative to the source root.
	Path string

	// Line is the 1-based line where the problem was detected.
	Line int

	// Msg describes the problem.
	Msg string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Unwrap returns ErrParse.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// IOError reports an unreadable or unwritable path.
type IOError struct {
	// Op is the attempted operation ("read", "write", "list").
	Op string

	// Path is the affected path.
	Path string

	// Err is the underlying filesystem error.
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns both ErrIO and the underlying error.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
