// Package common defines the error taxonomy and small helpers shared by the
// guest Wi-Fi server layers. Callers should use errors.Is / errors.As (or
// KindOf) to classify failures.
package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Webhook payload whose signature does not match the host secret.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Kind classifies an Error and selects the HTTP status it is rendered with.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindAlreadyClaimed
	KindAccountRequired
)

const (
	MessageValidation   = "Failed validation"
	MessageBadRequest   = "Request has wrong format."
	MessageUnauthorized = "Authentication credentials not valid."
	MessageNotFound     = "The requested resource could not be found"
	MessageInternal     = "An internal server error occurred. Please contact the administrator."

	MessageAlreadyClaimed  = "Serial is already claimed in a different Meraki Organization or if you have just unclaimed from an organization, please try again in 30 minutes."
	MessageAccountRequired = "You need a Webex Teams account for the email you have entered to use this service."
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindAlreadyClaimed:
		return "already_claimed"
	case KindAccountRequired:
		return "account_required"
	default:
		return "internal"
	}
}

// HTTPStatus returns the response status for the kind. AlreadyClaimed shares
// 400 with BadRequest; callers tell them apart by kind, not by status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindAccountRequired:
		return http.StatusUnprocessableEntity
	case KindBadRequest, KindAlreadyClaimed:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// InvalidParam names a request field that failed and why.
type InvalidParam struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// Error is a classified, user-presentable failure.
type Error struct {
	Kind          Kind
	Message       string
	InvalidParams []InvalidParam
	Err           error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, message string, err error, params ...InvalidParam) *Error {
	return &Error{Kind: kind, Message: message, InvalidParams: params, Err: err}
}

func Validation(params ...InvalidParam) *Error {
	return NewError(KindValidation, MessageValidation, nil, params...)
}

func BadRequest(message string, params ...InvalidParam) *Error {
	if message == "" {
		message = MessageBadRequest
	}
	return NewError(KindBadRequest, message, nil, params...)
}

func Unauthorized(err error) *Error {
	return NewError(KindUnauthorized, MessageUnauthorized, err)
}

func NotFound(message string, params ...InvalidParam) *Error {
	if message == "" {
		message = MessageNotFound
	}
	return NewError(KindNotFound, message, nil, params...)
}

func AlreadyClaimed(params ...InvalidParam) *Error {
	return NewError(KindAlreadyClaimed, MessageAlreadyClaimed, nil, params...)
}

func AccountRequired(params ...InvalidParam) *Error {
	return NewError(KindAccountRequired, MessageAccountRequired, nil, params...)
}

// Internal wraps an unclassified failure. The cause is kept for logging and
// never rendered to clients.
func Internal(err error) *Error {
	if err == nil {
		err = ErrorInternal
	}
	return NewError(KindInternal, MessageInternal, err)
}

// AsError returns err as a classified *Error, wrapping unknown errors as
// Internal. A nil err yields nil.
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

// KindOf reports the kind of err; unclassified errors are KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a classified Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
