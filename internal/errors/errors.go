// Package errors defines the stable error code system for partdoc.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract.
const (
	EUsage    Code = "E_USAGE"
	EInternal Code = "E_INTERNAL"

	// Configuration error codes
	ENoConfig        Code = "E_NO_CONFIG"
	EInvalidConfig   Code = "E_INVALID_CONFIG"
	EUnknownProvider Code = "E_UNKNOWN_PROVIDER"
	EConfigExists    Code = "E_CONFIG_EXISTS"

	// Pipeline error codes (fatal; abort the run)
	EInputNotFound         Code = "E_INPUT_NOT_FOUND"
	EMissingCorpusCategory Code = "E_MISSING_CORPUS_CATEGORY"
	ETemplateNotFound      Code = "E_TEMPLATE_NOT_FOUND"
	EProviderUnavailable   Code = "E_PROVIDER_UNAVAILABLE"
	EIRInvalid             Code = "E_IR_INVALID"

	// Run persistence error codes
	ERunDirExists  Code = "E_RUN_DIR_EXISTS"
	EPersistFailed Code = "E_PERSIST_FAILED"

	// Run lookup error codes (ls / show / clean)
	ERunNotFound    Code = "E_RUN_NOT_FOUND"
	ERunIDAmbiguous Code = "E_RUN_ID_AMBIGUOUS" // id prefix matches >1 run
	ERunBroken      Code = "E_RUN_BROKEN"       // run exists but meta.json is unreadable/invalid
)

// PartdocError is the standard error type for partdoc errors.
type PartdocError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *PartdocError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *PartdocError) Unwrap() error {
	return e.Cause
}

// ExitCodeError wraps an error with an explicit process exit code.
type ExitCodeError struct {
	Err  error
	Code int
}

func (e *ExitCodeError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

func (e *ExitCodeError) ExitCode() int {
	return e.Code
}

// WithExitCode wraps err with a specific process exit code.
func WithExitCode(err error, code int) error {
	return &ExitCodeError{Err: err, Code: code}
}

// New creates a new PartdocError with the given code and message.
func New(code Code, msg string) error {
	return &PartdocError{Code: code, Msg: msg}
}

// NewWithDetails creates a new PartdocError with code, message, and details.
// Details map is defensively copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &PartdocError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new PartdocError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &PartdocError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new PartdocError wrapping an underlying error with details.
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &PartdocError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// GetCode extracts the error code from an error, or empty string if not a PartdocError.
func GetCode(err error) Code {
	var pe *PartdocError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// AsPartdocError returns (*PartdocError, true) if err is or wraps a PartdocError.
func AsPartdocError(err error) (*PartdocError, bool) {
	var pe *PartdocError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// copyDetails returns a defensive copy of the details map, or nil if empty/nil.
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

// ExitCode returns the appropriate exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(interface{ ExitCode() int }); ok {
		return ec.ExitCode()
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var pe *PartdocError
	if errors.As(err, &pe) {
		_, _ = fmt.Fprintf(w, "error_code: %s\n", pe.Code)
		_, _ = fmt.Fprintln(w, pe.Msg)
	} else {
		// Fallback for non-PartdocError errors (should not happen in practice)
		_, _ = fmt.Fprintln(w, err.Error())
	}
}
