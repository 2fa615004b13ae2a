// Package core provides the business logic for the CSV records API.
//
// # Error Codes Reference
//
// Every failure returned by this package wraps one of the sentinel errors
// below. The HTTP layer never shows these to clients (all endpoints answer
// with a static message); the codes exist so operators can grep logs.
//
//	IO001  - ErrIO: source file missing or unreadable, archive not writable
//	CSV001 - ErrParse: CSV content is not well-formed delimited text
//	COL001 - ErrMissingColumn: header lacks a column the filters need
//	SER001 - ErrSerialization: export payload could not be encoded as JSON
//	EXP001 - ErrTooManyExports: no export slot became free in time
//	CTX001 - context canceled or deadline exceeded
//	ERR000 - anything else
package core

import (
	"context"
	"errors"
)

var (
	// ErrIO reports a file-system failure on the CSV source or the temp archive.
	ErrIO = errors.New("io error")

	// ErrParse reports malformed CSV content.
	ErrParse = errors.New("invalid csv")

	// ErrMissingColumn reports that a filter column is absent from the header.
	ErrMissingColumn = errors.New("missing column")

	// ErrSerialization reports an export payload that cannot be turned into JSON.
	ErrSerialization = errors.New("serialization error")
)

// UserMessage pairs a short description with a stable code for log correlation.
type UserMessage struct {
	Message string
	Code    string
}

type errorMapping struct {
	target error
	msg    UserMessage
}

// errorMappings is checked in order with errors.Is; first match wins.
var errorMappings = []errorMapping{
	{ErrIO, UserMessage{Message: "File could not be read or written", Code: "IO001"}},
	{ErrParse, UserMessage{Message: "Source file is not valid CSV", Code: "CSV001"}},
	{ErrMissingColumn, UserMessage{Message: "Source file is missing a filter column", Code: "COL001"}},
	{ErrSerialization, UserMessage{Message: "Payload could not be encoded", Code: "SER001"}},
	{ErrTooManyExports, UserMessage{Message: "Too many exports in progress", Code: "EXP001"}},
	{context.Canceled, UserMessage{Message: "Request was cancelled", Code: "CTX001"}},
	{context.DeadlineExceeded, UserMessage{Message: "Request timed out", Code: "CTX001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Code:    "ERR000",
}

// MapError returns the message and code for err, or the ERR000 fallback when
// err wraps none of the known sentinels. A nil error maps to the zero value.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.msg
		}
	}
	return defaultMessage
}

// Classify is shorthand for MapError(err).Code.
func Classify(err error) string {
	return MapError(err).Code
}
