package domain

import (
	"errors"
	"fmt"
)

var (
	ErrLoad         = errors.New("load error")
	ErrData         = errors.New("data error")
	ErrUnknownField = errors.New("unknown filter field")
)

// LoadError reports an input that could not be read, or that lacks a required column.
type LoadError struct {
	Source string
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("load %s: missing required column %q", e.Source, e.Column)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// DataError reports an assumption about the data that cannot be resolved silently.
// Row is 1-based over data rows; 0 means the whole column.
type DataError struct {
	Column string
	Row    int
	Reason string
}

func (e *DataError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("data error: column %s row %d: %s", e.Column, e.Row, e.Reason)
	}
	return fmt.Sprintf("data error: column %s: %s", e.Column, e.Reason)
}

func (e *DataError) Is(target error) bool { return target == ErrData }
