package apperr

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Code is a stable error code string.
type Code string

const (
	// ConfigurationError marks invalid user input (name, locale, ports).
	ConfigurationError Code = "CONFIGURATION_ERROR"
	// DirectoryExists marks a target directory that is already present.
	DirectoryExists Code = "DIRECTORY_EXISTS"
	// DependencyUnsatisfied marks one or more missing system dependencies.
	DependencyUnsatisfied Code = "DEPENDENCY_UNSATISFIED"
	// UnknownDependency marks a lookup of an undeclared dependency.
	UnknownDependency Code = "UNKNOWN_DEPENDENCY"
	// TemplateMissing marks a referenced template that is not packaged.
	TemplateMissing Code = "TEMPLATE_MISSING"
	// ExternalCommandFailed marks a shelled-out command with a non-zero exit.
	ExternalCommandFailed Code = "EXTERNAL_COMMAND_FAILED"
	// ManifestMergeFailed marks an existing manifest that cannot be parsed.
	ManifestMergeFailed Code = "MANIFEST_MERGE_FAILED"
	// Internal marks anything else.
	Internal Code = "INTERNAL"
)

// Error is the standard coded error.
type Error struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string
}

// Error returns the message, followed by the cause when there is one.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Msg == ""
}

// New creates an Error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Msg: msg}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping an underlying cause.
func Wrap(code Code, msg string, err error) error {
	return &Error{Code: code, Msg: msg, Cause: err}
}

// WithDetails creates an Error with code, message and details.
// The details map is copied (nil if empty).
func WithDetails(code Code, msg string, details map[string]string) error {
	return &Error{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Sentinel returns a code-only value usable as an errors.Is target.
func Sentinel(code Code) error {
	return &Error{Code: code}
}

// CodeOf extracts the code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// As returns (*Error, true) if err is or wraps an *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ExitCode returns 0 for nil and 1 for every other error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Print writes err to w as "Error: <message>" followed by any details, one
// "  key: value" line each in key order.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err.Error())
	e, ok := As(err)
	if !ok || len(e.Details) == 0 {
		return
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, e.Details[k])
	}
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}
