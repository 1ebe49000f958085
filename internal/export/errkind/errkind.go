// Package errkind defines the structured error taxonomy for export runs.
//
// Every failure an export can hit maps to exactly one Kind. Each Kind carries
// one fixed human-readable message; callers log that message once at the
// failure boundary and propagate the wrapped error unchanged. Nothing in this
// package retries or swallows anything.
package errkind

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The zero value means "unclassified"; callers
// should treat unclassified errors as Internal when reporting.
type Kind uint8

const (
	// Syntax: the query text could not be parsed.
	Syntax Kind = iota + 1
	// Describe: column metadata could not be derived after a successful parse.
	Describe
	// Path: unknown directory alias or unusable file name.
	Path
	// Mode: unknown open mode.
	Mode
	// Operation: a file operation failed or was attempted out of sequence.
	Operation
	// Handle: a closed or otherwise invalid file handle was used.
	Handle
	// Write: a write to the output artifact failed.
	Write
	// Read: a fetch from the query cursor failed.
	Read
	// Internal: anything that does not fit the kinds above.
	Internal
)

// String returns the stable identifier used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax_error"
	case Describe:
		return "describe_error"
	case Path:
		return "invalid_path"
	case Mode:
		return "invalid_mode"
	case Operation:
		return "invalid_operation"
	case Handle:
		return "invalid_filehandle"
	case Write:
		return "write_error"
	case Read:
		return "read_error"
	case Internal:
		return "internal_error"
	}
	return "unclassified"
}

// Message returns the single fixed diagnostic line for the kind.
func (k Kind) Message() string {
	switch k {
	case Syntax:
		return "query cannot be parsed"
	case Describe:
		return "column metadata cannot be derived"
	case Path:
		return "invalid directory alias or file name"
	case Mode:
		return "invalid file open mode"
	case Operation:
		return "file operation failed or out of sequence"
	case Handle:
		return "invalid or closed file handle"
	case Write:
		return "write to output file failed"
	case Read:
		return "read from query cursor failed"
	case Internal:
		return "unexpected internal failure"
	}
	return "unclassified failure"
}

// Error pairs an underlying cause with its Kind. It supports errors.Is/As so
// callers can branch on the taxonomy without string matching.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Message()
	}
	return fmt.Sprintf("%s: %v", e.Kind.Message(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with the given kind. If err is already classified, the
// original classification wins: an error is never re-labeled as it climbs out
// of the export call.
func New(kind Kind, err error) error {
	var ke *Error
	if errors.As(err, &ke) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

// Newf is New over a formatted cause.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the classification of err. Unclassified errors report
// Internal, so every failure surfaced to a caller maps to a taxonomy entry.
func KindOf(err error) Kind {
	var ke *Error
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return Internal
}

// IsKind reports whether err carries exactly the given kind.
func IsKind(err error, kind Kind) bool {
	var ke *Error
	return errors.As(err, &ke) && ke.Kind == kind
}
