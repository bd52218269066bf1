package models

import (
	"errors"
	"strings"
)

var (
	// ErrMissingRequiredColumn is returned when the date or a primary revenue/order column is absent.
	ErrMissingRequiredColumn = errors.New("missing required column")
	// ErrFileNotFound is returned when neither the primary nor the fallback source resolves.
	ErrFileNotFound = errors.New("data file not found")
	// ErrEmptyTable is returned when a source parses to zero usable rows.
	ErrEmptyTable = errors.New("table has no rows")
)

// MissingColumnError names the required columns a source lacked.
type MissingColumnError struct {
	Source  string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return "missing required column(s) " + strings.Join(e.Columns, ", ") + " in " + e.Source
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingRequiredColumn }

// SourceError reports every path tried before giving up on a data file.
type SourceError struct {
	Paths []string
	Err   error
}

func (e *SourceError) Error() string {
	return "unable to load marketing data (tried " + strings.Join(e.Paths, ", ") + "): " + e.Err.Error()
}

func (e *SourceError) Unwrap() []error { return []error{ErrFileNotFound, e.Err} }
