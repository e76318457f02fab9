package dataset

import (
	"errors"
	"fmt"
)

var ErrEmptyTable = errors.New("empty dataset")

// MissingInputError reports an input artifact that has not been produced yet.
type MissingInputError struct {
	Path string
	Hint string
}

func (e *MissingInputError) Error() string {
	msg := fmt.Sprintf("input file not found: %s", e.Path)
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

// WriteError reports a destination that could not be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ParseError points at a malformed line. Line numbers are 1-based and count the header.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
