package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks the role required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidAmount indicates a ledger operation was attempted with a non-positive amount.
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// ErrInsufficientFunds indicates a withdrawal or transfer exceeds the current balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidRole indicates a role outside the set accepted by the operation.
var ErrInvalidRole = errors.New("invalid role")

// AppError wraps an unexpected failure with the HTTP status it should surface as.
// Domain and validation failures use the sentinel errors above instead.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
