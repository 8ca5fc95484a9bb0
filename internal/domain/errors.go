package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNoMatch indicates the catalog returned no volume for the query
	ErrNoMatch = errors.New("no extended details found")

	// ErrSourceUnreachable indicates the book catalog could not be reached
	ErrSourceUnreachable = errors.New("could not reach book catalog")

	// ErrInvalidBook indicates manual entry input was rejected before reaching the store
	ErrInvalidBook = errors.New("invalid book entry")
)
