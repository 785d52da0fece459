package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure of the scheduling core.
type ErrorKind string

const (
	KindValidation             ErrorKind = "ValidationError"
	KindReferenceNotFound      ErrorKind = "ReferenceNotFound"
	KindReservationNotFound    ErrorKind = "ReservationNotFound"
	KindInvalidStateTransition ErrorKind = "InvalidStateTransition"
	KindSlotNoLongerAvailable  ErrorKind = "SlotNoLongerAvailable"
	KindConfiguration          ErrorKind = "ConfigurationError"
	KindUnknown                ErrorKind = "Unknown"
)

// DomainError is the single error type surfaced by the services. Kind drives
// the caller's handling; Err keeps the underlying cause for logs.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches the kind-only sentinels below, so errors.Is(err, ErrSlotNoLongerAvailable)
// holds for any DomainError of that kind.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrValidation             = &DomainError{Kind: KindValidation}
	ErrReferenceNotFound      = &DomainError{Kind: KindReferenceNotFound}
	ErrReservationNotFound    = &DomainError{Kind: KindReservationNotFound}
	ErrInvalidStateTransition = &DomainError{Kind: KindInvalidStateTransition}
	ErrSlotNoLongerAvailable  = &DomainError{Kind: KindSlotNoLongerAvailable}
	ErrConfiguration          = &DomainError{Kind: KindConfiguration}
	ErrUnknown                = &DomainError{Kind: KindUnknown}
)

func newError(kind ErrorKind, format string, args ...any) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...any) *DomainError {
	return newError(KindValidation, format, args...)
}

func NewReferenceNotFound(format string, args ...any) *DomainError {
	return newError(KindReferenceNotFound, format, args...)
}

func NewReservationNotFound(id string) *DomainError {
	return newError(KindReservationNotFound, "reservation %s not found", id)
}

func NewInvalidTransition(from, to ReservationStatus) *DomainError {
	return newError(KindInvalidStateTransition, "cannot move reservation from %s to %s", from, to)
}

func NewSlotNoLongerAvailable(format string, args ...any) *DomainError {
	return newError(KindSlotNoLongerAvailable, format, args...)
}

func NewConfigurationError(format string, args ...any) *DomainError {
	return newError(KindConfiguration, format, args...)
}

// WrapUnknown turns an unexpected (storage) failure into the opaque Unknown kind.
// Errors that already carry a kind pass through untouched.
func WrapUnknown(err error, message string) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	return &DomainError{Kind: KindUnknown, Message: message, Err: err}
}

// KindOf reports the kind of err, or KindUnknown when err is not a DomainError.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
