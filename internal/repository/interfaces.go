package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danutama/loan-tracker/internal/domain"
)

// UserRepository defines the interface for account persistence
type UserRepository interface {
	// Create inserts a new account; returns ErrDuplicateEmail on a unique
	// constraint violation
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves an account by primary key
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmailAndRole retrieves the account matching both email and role
	GetByEmailAndRole(ctx context.Context, email, role string) (*domain.User, error)

	// UpsertAdmin updates the existing admin account's email and password
	// hash, or creates one when none exists. Used by the reset tool only.
	UpsertAdmin(ctx context.Context, name, email, passwordHash string) (*domain.User, error)
}

// LoanRepository defines the interface for loan persistence
type LoanRepository interface {
	// Create inserts a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan joined with its borrower's identity
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanWithBorrower, error)

	// ListByBorrower retrieves a borrower's loans, newest first
	ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*domain.Loan, error)

	// ListAllWithBorrower retrieves every loan joined with borrower identity,
	// newest first (admin dashboard)
	ListAllWithBorrower(ctx context.Context) ([]*domain.LoanWithBorrower, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Create inserts a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// ListByLoan retrieves all payments for a loan, payment date descending
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error)

	// SumByLoan returns the total amount paid against a loan
	SumByLoan(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error)
}
