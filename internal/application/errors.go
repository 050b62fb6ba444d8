package application

import (
	"errors"
	"fmt"

	"github.com/oksasatya/perfume-catalog/internal/domain/repository"
)

// Kind classifies failures; the HTTP layer maps each kind to one status.
type Kind string

const (
	KindNotFound           Kind = "NotFound"
	KindValidation         Kind = "ValidationError"
	KindBadRequest         Kind = "BadRequest"
	KindConflict           Kind = "Conflict"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindUnauthorized       Kind = "Unauthorized"
	KindForbidden          Kind = "Forbidden"
	KindUnavailable        Kind = "Unavailable"
	KindInternal           Kind = "InternalError"
)

// Denial codes carried by Conflict and credential errors.
const (
	CodeBrandInUse             = "BRAND_IN_USE"
	CodeMemberHasComments      = "MEMBER_HAS_COMMENTS"
	CodeEmailTaken             = "EMAIL_TAKEN"
	CodeBrandNameTaken         = "BRAND_NAME_TAKEN"
	CodeAdminExists            = "ADMIN_EXISTS"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeCurrentPasswordInvalid = "CURRENT_PASSWORD_INCORRECT"
)

// Error is the single error type returned by services.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	// ErrInvalidCredentials is shared by unknown email and wrong password.
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Code: CodeInvalidCredentials, Message: "Invalid credentials"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "Authentication required"}
)

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Validation(msg string, fields map[string]string) *Error {
	e := &Error{Kind: KindValidation, Message: msg}
	if len(fields) > 0 {
		e.Details = make(map[string]any, len(fields))
		for k, v := range fields {
			e.Details[k] = v
		}
	}
	return e
}

func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func Conflict(code, msg string, details map[string]any) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg, Details: details}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Unavailable(msg string) *Error {
	return &Error{Kind: KindUnavailable, Message: msg}
}

// Internal wraps an unexpected store or integration failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// AsError returns err as *Error, wrapping anything else as InternalError.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// KindOf reports the kind of err, InternalError for foreign errors and ""
// for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return AsError(err).Kind
}

// notFoundOr maps repository.ErrNotFound to a NotFound error with msg and
// wraps other failures as InternalError.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound(msg)
	}
	return Internal(err)
}
