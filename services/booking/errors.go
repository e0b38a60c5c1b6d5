package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies booking failures. Every kind is recoverable.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindAvailability ErrorKind = "availability"
	KindPayment      ErrorKind = "payment"
)

// Sentinels for errors.Is matching on the kind of an *Error.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrAvailability = errors.New("slot unavailable")
	ErrPayment      = errors.New("payment failed")

	ErrNotInitialized = errors.New("booking engine not initialized")
)

// Error is a typed booking failure surfaced to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  []string // missing or invalid request fields, when known
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrAvailability:
		return e.Kind == KindAvailability
	case ErrPayment:
		return e.Kind == KindPayment
	}
	return false
}

// KindOf returns the kind of a booking error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func NewValidationError(msg string, fields ...string) error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NewNotFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewAvailabilityError(msg string, cause error) error {
	return &Error{Kind: KindAvailability, Message: msg, Err: cause}
}

func NewPaymentError(msg string, cause error) error {
	return &Error{Kind: KindPayment, Message: msg, Err: cause}
}
