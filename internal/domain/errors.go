package domain

import (
	"errors"
	"fmt"
)

// FetchError describes a failed attempt to download a feed.
// StatusCode is set when the server answered with a non-success status,
// Err is set when the request never produced a usable response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch url %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("unexpected status code: %d for url %s", e.StatusCode, e.URL)
}

// Unwrap returns the transport or read error, or nil for a status code failure.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError describes a feed document that could not be turned into announcements.
// Line is the 1-based line of a syntax error, or 0 when the location is unknown.
type ParseError struct {
	Line int
	Err  error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to decode XML at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("failed to decode XML: %v", e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsFetchError checks if an error is a FetchError
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsParseError checks if an error is a ParseError
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
