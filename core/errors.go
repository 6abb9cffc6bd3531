package core

import "errors"

var (
	// ErrNotFound indicates that the requested fault was not found.
	ErrNotFound = errors.New("fault not found")

	// ErrNoRecords indicates an input document with no fault records.
	ErrNoRecords = errors.New("no fault records in input")

	// ErrMalformedDocument indicates input that is not a recognized document shape.
	ErrMalformedDocument = errors.New("malformed fault document")
)
