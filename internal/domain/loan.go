package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan represents a loan entity. EMI is computed once at creation and stored
// immutably: historical loans keep their original installment even if the
// formula ever changes.
type Loan struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	BorrowerID uuid.UUID       `json:"borrower_id" db:"borrower_id"`
	Principal  decimal.Decimal `json:"principal" db:"principal"`
	AnnualRate decimal.Decimal `json:"annual_rate" db:"annual_rate"`
	TermMonths int             `json:"term_months" db:"term_months"`
	EMI        decimal.Decimal `json:"emi" db:"emi"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// LoanWithBorrower is the admin-dashboard row: a loan joined with the
// identity of the account that owns it.
type LoanWithBorrower struct {
	Loan
	BorrowerName  string `json:"borrower_name" db:"borrower_name"`
	BorrowerEmail string `json:"borrower_email" db:"borrower_email"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	Principal  decimal.Decimal `form:"principal" validate:"required"`
	AnnualRate decimal.Decimal `form:"annual_rate"`
	TermMonths int             `form:"term_months" validate:"required,gt=0"`
	Phone      string          `form:"phone_number"`
}

type CalculateEMIRequest struct {
	Principal  decimal.Decimal `form:"principal" validate:"required"`
	AnnualRate decimal.Decimal `form:"annual_rate"`
	TermMonths int             `form:"term_months" validate:"required"`
}

type CalculateEMIResponse struct {
	EMI decimal.Decimal `json:"emi"`
}

// LoanDetail bundles a loan with its payment history and the derived balance
// figures. None of the derived fields are persisted.
type LoanDetail struct {
	Loan         LoanWithBorrower `json:"loan"`
	Payments     []*Payment       `json:"payments"`
	TotalPaid    decimal.Decimal  `json:"total_paid"`
	TotalPayable decimal.Decimal  `json:"total_payable"`
	Remaining    decimal.Decimal  `json:"remaining"`
}
