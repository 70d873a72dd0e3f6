// Package types defines the configuration and error types shared by texclean's packages.
package types

// Config is the persisted texclean configuration
type Config struct {
	KeepComments             bool     `json:"keep_comments"`
	KeepInlineMathDelimiters bool     `json:"keep_inline_math_delimiters"` // false rewrites $..$ to \(..\)
	NormalizeUnicode         bool     `json:"normalize_unicode"`           // NFC before the pipeline
	Encoding                 string   `json:"encoding"`                    // "auto", a WHATWG label or "utf-8-bom"
	SkipRules                []string `json:"skip_rules,omitempty"`
	LogLevel                 string   `json:"log_level"`
	LogFile                  string   `json:"log_file,omitempty"` // empty logs to stderr only
}

// ErrorCode identifies the class of an AppError
type ErrorCode string

const (
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrIO           ErrorCode = "IO_ERROR"
	ErrEncoding     ErrorCode = "ENCODING_ERROR"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError is the error type returned by the I/O layers
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
