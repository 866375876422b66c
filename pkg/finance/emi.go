// Package finance holds the loan arithmetic: the EMI (equated monthly
// installment) calculator and the balance aggregation over recorded payments.
// Everything here is pure; all currency results are rounded to 2 decimal
// places using decimal's round-half-away-from-zero.
package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidTerm is returned when the term is shorter than one month. A zero
// term would divide by zero in both branches of the formula.
var ErrInvalidTerm = errors.New("term must be at least one month")

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// CalculateEMI returns the periodic installment for a reducing-balance loan.
//
// The monthly rate is r = annualRatePercent / 12 / 100. With r == 0 the
// installment is the straight-line division principal/termMonths; otherwise
// the standard annuity formula applies:
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
func CalculateEMI(principal, annualRatePercent decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if termMonths < 1 {
		return decimal.Zero, ErrInvalidTerm
	}

	n := decimal.NewFromInt(int64(termMonths))
	r := annualRatePercent.Div(twelve).Div(hundred)

	if r.IsZero() {
		return principal.Div(n).Round(2), nil
	}

	// (1+r)^n is exact under decimal Pow for integer exponents
	compound := one.Add(r).Pow(n)
	numerator := principal.Mul(r).Mul(compound)
	denominator := compound.Sub(one)

	return numerator.Div(denominator).Round(2), nil
}

// Balance is the derived view of a loan's ledger position. Remaining may be
// negative when the borrower has overpaid.
type Balance struct {
	TotalPaid    decimal.Decimal
	TotalPayable decimal.Decimal
	Remaining    decimal.Decimal
}

// Aggregate sums recorded payment amounts against the total payable
// (installment * term). The result depends only on the multiset of amounts,
// not their order, and an empty payment list yields TotalPaid == 0. The sum
// is never capped at the payable amount: overpayment is valid input.
func Aggregate(installment decimal.Decimal, termMonths int, payments []decimal.Decimal) Balance {
	totalPayable := installment.Mul(decimal.NewFromInt(int64(termMonths))).Round(2)

	totalPaid := decimal.Zero
	for _, amount := range payments {
		totalPaid = totalPaid.Add(amount)
	}
	totalPaid = totalPaid.Round(2)

	return Balance{
		TotalPaid:    totalPaid,
		TotalPayable: totalPayable,
		Remaining:    totalPayable.Sub(totalPaid).Round(2),
	}
}
