package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrNotAuthorized     = errors.New("not authorized for this loan")
	ErrInvalidTerm       = errors.New("invalid loan term")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound      = "LOAN_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredential = "INVALID_CREDENTIALS"
	ErrCodeNotAuthorized     = "NOT_AUTHORIZED"
	ErrCodeInvalidTerm       = "INVALID_TERM"
	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
)

// Wrap common errors with business context

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapDuplicateEmail(email string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateEmail,
		fmt.Sprintf("Email %s is already registered", email),
		ErrDuplicateEmail,
	)
}

func WrapInvalidCredentials() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCredential,
		"Invalid email or password",
		ErrInvalidCredential,
	)
}

func WrapNotAuthorized(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotAuthorized,
		fmt.Sprintf("You are not authorized to access loan %s", loanID),
		ErrNotAuthorized,
	)
}

func WrapInvalidTerm(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTerm,
		"Loan term must be a positive number of months",
		errors.Join(ErrInvalidTerm, err),
	)
}

func WrapInvalidAmount(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidAmount, message, ErrInvalidAmount)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}
