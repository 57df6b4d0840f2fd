package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindProvider
)

// Error is the error type surfaced by services. Code is a stable
// machine-readable identifier returned to API clients.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

func NotFound(code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

func Conflict(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

func Provider(msg string, err error) *Error {
	return &Error{Kind: KindProvider, Code: "WHATSAPP_API_ERROR", Message: msg, Err: err}
}

// KindOf returns KindInternal for errors that are not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to the response status. Conflicts are reported as
// bad requests.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the error code, INTERNAL_ERROR for unclassified errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "INTERNAL_ERROR"
}

const (
	CodeNotFound     = "DB_ERROR_NOT_FOUND"
	CodeInvalidInput = "DB_ERROR_INVALID_INPUT"
	CodeDuplicate    = "DB_ERROR_DUPLICATE"
)
