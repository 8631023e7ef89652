package usecase

import (
	"errors"

	"pizza-ordering/internal/data/entity"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = entity.ErrInvalidTransition
	ErrImmutableOrder    = errors.New("order can no longer be modified")
)

// Error carries the client-facing message next to its kind. A nil Kind means
// an unexpected failure; Err then holds the cause.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func notFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Message: msg} }
func unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }
func invalid(msg string) error      { return &Error{Kind: ErrInvalidInput, Message: msg} }
func immutable(msg string) error    { return &Error{Kind: ErrImmutableOrder, Message: msg} }

func invalidFields(msg string, fields map[string]string) error {
	return &Error{Kind: ErrInvalidInput, Message: msg, Fields: fields}
}

func invalidTransition(msg string, cause error) error {
	return &Error{Kind: ErrInvalidTransition, Message: msg, Err: cause}
}

// failed wraps a persistence or infrastructure error under an operation message.
func failed(msg string, cause error) error {
	return &Error{Message: msg, Err: cause}
}
