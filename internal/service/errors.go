package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error matches exactly one of them with errors.Is.
var (
	ErrValidation        = errors.New("VALIDATION_ERROR")
	ErrNotFound          = errors.New("NOT_FOUND")
	ErrForbidden         = errors.New("FORBIDDEN")
	ErrInvalidTransition = errors.New("INVALID_TRANSITION")
	ErrConflict          = errors.New("CONFLICT")
	ErrInternal          = errors.New("INTERNAL")
)

// Detail codes carried next to the kind.
const (
	CodeProviderRequired = "PROVIDER_REQUIRED"
	CodeProviderLocked   = "PROVIDER_LOCKED"
	CodeInvalidField     = "INVALID_FIELD"
	CodeDeleteNotAllowed = "DELETE_NOT_ALLOWED"
	CodeRFQNotOpen       = "RFQ_NOT_OPEN"
	CodeNotOwner         = "NOT_OWNER"
	CodeAcceptViaQuote   = "ACCEPT_VIA_QUOTE"
	CodeAlreadyResolved  = "ALREADY_RESOLVED"
	CodeStaleState       = "STALE_STATE"
	CodeDuplicate        = "DUPLICATE"
)

type Error struct {
	Kind    error
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s/%s: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.cause }

func newError(kind error, code, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func validationError(code, format string, args ...interface{}) *Error {
	return newError(ErrValidation, code, format, args...)
}

func notFound(format string, args ...interface{}) *Error {
	return newError(ErrNotFound, "", format, args...)
}

func forbidden(code, format string, args ...interface{}) *Error {
	return newError(ErrForbidden, code, format, args...)
}

func conflict(code, format string, args ...interface{}) *Error {
	return newError(ErrConflict, code, format, args...)
}

// internalError wraps an unexpected storage failure. The cause stays
// reachable through errors.Unwrap for logging.
func internalError(op string, err error) *Error {
	return &Error{Kind: ErrInternal, Message: op + " failed", cause: err}
}

// KindOf returns the kind of err, ErrInternal for anything unrecognized.
func KindOf(err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ErrInternal
}

// CodeOf returns the detail code of err, if any.
func CodeOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}
