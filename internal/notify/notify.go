// Package notify delivers best-effort SMS notifications for ledger events.
// Dispatch never returns an error to the caller: every failure mode (feature
// disabled, missing credentials, gateway failure) is reported as
// (ok, reason) and only affects the user-facing confirmation message. The
// triggering write has already been committed by the time a dispatcher runs.
package notify

import (
	"context"

	"github.com/shopspring/decimal"
)

// LoanNotice carries the details announced when a loan is created.
type LoanNotice struct {
	BorrowerName string
	Principal    decimal.Decimal
	AnnualRate   decimal.Decimal
	TermMonths   int
	EMI          decimal.Decimal
}

// PaymentNotice carries the details announced when a payment is recorded.
type PaymentNotice struct {
	BorrowerName string
	LoanID       string
	Amount       decimal.Decimal
	Remaining    decimal.Decimal
}

// ReminderNotice carries the details of an upcoming-installment reminder.
type ReminderNotice struct {
	BorrowerName string
	LoanID       string
	EMI          decimal.Decimal
	Remaining    decimal.Decimal
}

// Dispatcher sends outbound notifications. Implementations must absorb all
// failures and report them through the returned (ok, message) pair.
type Dispatcher interface {
	LoanCreated(ctx context.Context, phone string, notice LoanNotice) (bool, string)
	PaymentRecorded(ctx context.Context, phone string, notice PaymentNotice) (bool, string)
	EMIDue(ctx context.Context, phone string, notice ReminderNotice) (bool, string)
}

// Noop is a Dispatcher that records nothing and always succeeds. Used when
// notifications are disabled and in tests.
type Noop struct{}

func (Noop) LoanCreated(context.Context, string, LoanNotice) (bool, string) {
	return true, "SMS notifications disabled (test mode)"
}

func (Noop) PaymentRecorded(context.Context, string, PaymentNotice) (bool, string) {
	return true, "SMS notifications disabled (test mode)"
}

func (Noop) EMIDue(context.Context, string, ReminderNotice) (bool, string) {
	return true, "SMS notifications disabled (test mode)"
}
