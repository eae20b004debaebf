package services

import (
	"errors"
	"fmt"
)

// Billing errors come in three flavours. Controllers translate them to HTTP
// statuses; everything else aborts the whole action and leaves the store
// untouched.

// ValidationError marks bad input on the visit itself (conflicting discount
// modes, malformed data) detected before any persistence.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PreconditionError marks an invoice-time precondition failure: duplicate
// invoice, missing customer record, missing income account, nothing to
// invoice.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

func NewPreconditionError(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// PaymentError marks a rejected payment registration.
type PaymentError struct {
	Message string
}

func (e *PaymentError) Error() string { return e.Message }

func NewPaymentError(format string, args ...interface{}) *PaymentError {
	return &PaymentError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPreconditionError(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

func IsPaymentError(err error) bool {
	var pe *PaymentError
	return errors.As(err, &pe)
}
