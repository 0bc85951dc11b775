package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the different kinds of failures the client can surface
type ErrorType string

const (
	// Login handshake failures
	ErrorTypeNoCSRFToken      ErrorType = "no_csrf_token"
	ErrorTypeWrongCredentials ErrorType = "wrong_credentials"
	ErrorTypeTooManyAttempts  ErrorType = "too_many_attempts"
	ErrorTypeUnexpectedStatus ErrorType = "unexpected_status"
	ErrorTypeMissingCookie    ErrorType = "missing_cookie"
	ErrorTypeSession          ErrorType = "session"

	// Transport failures
	ErrorTypeTimeout  ErrorType = "timeout"
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeRedirect ErrorType = "redirect"
	ErrorTypeStatus   ErrorType = "status"

	ErrorTypeAuthExpired ErrorType = "auth_expired"

	// Extraction failures
	ErrorTypeNotFound ErrorType = "not_found"
	ErrorTypeMarkup   ErrorType = "markup"

	// Domain failures reported by the site itself
	ErrorTypeRejected ErrorType = "rejected"
	ErrorTypeBlocked  ErrorType = "blocked"
)

// Category groups error types the way callers usually branch on them
type Category string

const (
	CategorySession    Category = "session"
	CategoryTransport  Category = "transport"
	CategoryAuth       Category = "auth"
	CategoryExtraction Category = "extraction"
	CategoryDomain     Category = "domain"
)

// Error represents a client error with type information
type Error struct {
	Type    ErrorType
	Message string
	// Code is the HTTP status involved, 0 when there was none
	Code int
	// Location is the redirect target for ErrorTypeRedirect
	Location string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Type)
	}
	if e.Code != 0 {
		msg = fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, msg)
	} else {
		msg = fmt.Sprintf("%s error: %s", e.Type, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type. This lets the
// sentinels below be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Category returns the group the error type belongs to
func (e *Error) Category() Category {
	return CategoryOf(e.Type)
}

// CategoryOf maps an error type to its category
func CategoryOf(t ErrorType) Category {
	switch t {
	case ErrorTypeNoCSRFToken, ErrorTypeWrongCredentials, ErrorTypeTooManyAttempts,
		ErrorTypeUnexpectedStatus, ErrorTypeMissingCookie, ErrorTypeSession:
		return CategorySession
	case ErrorTypeTimeout, ErrorTypeNetwork, ErrorTypeRedirect, ErrorTypeStatus:
		return CategoryTransport
	case ErrorTypeAuthExpired:
		return CategoryAuth
	case ErrorTypeNotFound, ErrorTypeMarkup:
		return CategoryExtraction
	default:
		return CategoryDomain
	}
}

// New creates an error of the given type
func New(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given type around a cause
func Wrap(t ErrorType, err error, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Err: err}
}

// Sentinels for errors.Is checks
var (
	ErrNoCSRFToken      = &Error{Type: ErrorTypeNoCSRFToken}
	ErrWrongCredentials = &Error{Type: ErrorTypeWrongCredentials}
	ErrTooManyAttempts  = &Error{Type: ErrorTypeTooManyAttempts}
	ErrUnexpectedStatus = &Error{Type: ErrorTypeUnexpectedStatus}
	ErrMissingCookie    = &Error{Type: ErrorTypeMissingCookie}
	ErrSession          = &Error{Type: ErrorTypeSession}
	ErrTimeout          = &Error{Type: ErrorTypeTimeout}
	ErrNetwork          = &Error{Type: ErrorTypeNetwork}
	ErrRedirect         = &Error{Type: ErrorTypeRedirect}
	ErrStatus           = &Error{Type: ErrorTypeStatus}
	ErrAuthExpired      = &Error{Type: ErrorTypeAuthExpired}
	ErrNotFound         = &Error{Type: ErrorTypeNotFound}
	ErrMarkup           = &Error{Type: ErrorTypeMarkup}
	ErrRejected         = &Error{Type: ErrorTypeRejected}
	ErrBlocked          = &Error{Type: ErrorTypeBlocked}
)

// TypeOf returns the error type of err, or "" when err is not an *Error
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsCategory reports whether err carries the given category
func IsCategory(err error, c Category) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Category() == c
	}
	return false
}
