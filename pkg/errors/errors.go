// Package errors defines the coded error type used across pcc.
//
// Every failure that crosses a package boundary is a *PccError carrying a
// stable ErrorCode plus details (path, id) the CLI needs to render a message.
// Codes are compared with errors.Is, so callers never match on message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Workspace and configuration errors
	ErrConfiguration ErrorCode = "CONFIGURATION"
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Manifest errors
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"

	// Backup errors
	ErrBackupCreate      ErrorCode = "BACKUP_CREATE"
	ErrBackupNotFound    ErrorCode = "BACKUP_NOT_FOUND"
	ErrBackupIndex       ErrorCode = "BACKUP_INDEX"
	ErrRestoreIncomplete ErrorCode = "RESTORE_INCOMPLETE"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// PccError represents a structured error with code and details
type PccError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PccError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PccError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PccError) Is(target error) bool {
	var targetErr *PccError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PccError with the given code and message
func New(code ErrorCode, message string) *PccError {
	return &PccError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PccError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PccError {
	return &PccError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PccError
func Wrap(err error, code ErrorCode, message string) *PccError {
	if err == nil {
		return nil
	}
	return &PccError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PccError {
	if err == nil {
		return nil
	}
	return &PccError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PccError) WithDetail(key string, value interface{}) *PccError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *PccError) WithDetails(details map[string]interface{}) *PccError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var pccErr *PccError
	if errors.As(err, &pccErr) {
		return pccErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PccError
func GetErrorCode(err error) ErrorCode {
	var pccErr *PccError
	if errors.As(err, &pccErr) {
		return pccErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PccError
func GetErrorDetails(err error) map[string]interface{} {
	var pccErr *PccError
	if errors.As(err, &pccErr) {
		return pccErr.Details
	}
	return nil
}

// Detail returns a single string detail, or "" when absent.
func Detail(err error, key string) string {
	details := GetErrorDetails(err)
	if details == nil {
		return ""
	}
	if s, ok := details[key].(string); ok {
		return s
	}
	return ""
}
