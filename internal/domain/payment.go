package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is a recorded installment against a loan. PaymentDate is supplied
// by the caller; CreatedAt is when the row was written. Overpayment and
// duplicate payments are allowed: the amount is never checked against the
// remaining balance.
type Payment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	LoanID      uuid.UUID       `json:"loan_id" db:"loan_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type PaymentRequest struct {
	LoanID      string          `form:"loan_id" validate:"required,uuid"`
	Amount      decimal.Decimal `form:"amount" validate:"required"`
	PaymentDate string          `form:"payment_date" validate:"required,datetime=2006-01-02"`
	Phone       string          `form:"phone_number"`
}
