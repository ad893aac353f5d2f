package apperrors

import (
	"errors"
	"net/http"
)

// Kind discriminates the closed set of failure categories a repository
// operation is allowed to surface.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindDuplicate
	KindDatabase
)

// Error is a tagged application error. Details carries the per-field
// violation map for validation failures; Err wraps the underlying cause for
// storage failures and is never exposed to clients.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Duplicate(message string) *Error {
	return &Error{Kind: KindDuplicate, Message: message}
}

func Database(message string, err error) *Error {
	return &Error{Kind: KindDatabase, Message: message, Err: err}
}

// From unwraps err to the tagged application error, if there is one.
func From(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound reports whether err is a NotFound application error.
func IsNotFound(err error) bool {
	ae, ok := From(err)
	return ok && ae.Kind == KindNotFound
}

// HTTPStatus maps an error to its response status. Unrecognized errors map
// to 500.
func HTTPStatus(err error) int {
	if ae, ok := From(err); ok {
		switch ae.Kind {
		case KindValidation:
			return http.StatusBadRequest
		case KindNotFound:
			return http.StatusNotFound
		case KindDuplicate:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}
