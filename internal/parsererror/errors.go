// Package parsererror holds the typed errors raised while reading CSV sources.
package parsererror

import (
	"fmt"
	"strings"
)

// Status messages shown to the user for the two import failures.
const (
	MsgUnknownSchema = "Unknown CSV. Use the provided templates."
	MsgLoadFailed    = "Load error. Ensure each tab is published as CSV and URLs are correct."
)

// ParseError reports input that could not be read as CSV at all.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: failed to parse CSV at line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: failed to parse CSV: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FetchError reports a remote source that could not be retrieved. StatusCode
// is zero when no HTTP response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UnknownSchemaError is returned when a header row matches none of the
// known collection layouts.
type UnknownSchemaError struct {
	Source  string
	Headers []string
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("%s: unrecognized CSV headers [%s]", e.Source, strings.Join(e.Headers, ", "))
}

// ValidationError reports a bad option value supplied by the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
