// Package cdfwriter writes time-series scientific data to CDF files with
// a common naming convention, handling file boundaries, versioned
// filenames, and ISTP metadata. The binary encoding is delegated to an
// underlying NetCDF library.
package cdfwriter

import "errors"

// Common errors
var (
	ErrClosed            = errors.New("session is closed")
	ErrDuplicateVariable = errors.New("variable already declared")
	ErrUnknownVariable   = errors.New("variable not declared")
	ErrBadVersion        = errors.New("version must be three dotted integers")
	ErrBadValue          = errors.New("value not representable in variable type")
	ErrFileExists        = errors.New("output file already exists")
	ErrRecordMisaligned  = errors.New("record counts differ across variables")
	ErrAllValuesWritten  = errors.New("variable already holds data for all records")
)
