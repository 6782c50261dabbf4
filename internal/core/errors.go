package core

import (
	"errors"
	"fmt"
)

// Batch-level errors halt the pipeline for the current request.
var (
	// ErrEmptyInput means no table survived reading, so there is nothing to merge.
	ErrEmptyInput = errors.New("no tables to merge")

	// ErrEmptyColumnSet means the merged table has no columns to filter on.
	ErrEmptyColumnSet = errors.New("empty column set")
)

// Request errors.
var (
	// ErrUnsupportedFormat matches *FormatError via errors.Is.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrUnknownColumn is returned when a filter names a column the table lacks.
	ErrUnknownColumn = errors.New("column not found")

	// ErrTooManyFiles is returned when a category exceeds its file limit.
	ErrTooManyFiles = errors.New("too many files")

	// ErrFileTooLarge is reported per file when it exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrSessionNotFound is returned for unknown or expired batch sessions.
	ErrSessionNotFound = errors.New("batch session not found")
)

// FormatError reports a file whose extension is not a supported table format.
type FormatError struct {
	FileName  string
	Extension string
}

func (e *FormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("%s: %v (no extension)", e.FileName, ErrUnsupportedFormat)
	}
	return fmt.Sprintf("%s: %v %q", e.FileName, ErrUnsupportedFormat, e.Extension)
}

// Is makes errors.Is(err, ErrUnsupportedFormat) true.
func (e *FormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ReadError reports a recognised file that could not be parsed.
type ReadError struct {
	FileName string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read file %s: %v", e.FileName, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// IsFileError reports whether err is a per-file error (the batch may continue)
// rather than a batch-level one.
func IsFileError(err error) bool {
	var re *ReadError
	var fe *FormatError
	return errors.As(err, &re) || errors.As(err, &fe) || errors.Is(err, ErrFileTooLarge)
}
