package pdf

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danutama/loan-tracker/internal/domain"
)

func testLoan() *domain.LoanWithBorrower {
	return &domain.LoanWithBorrower{
		Loan: domain.Loan{
			ID:         uuid.New(),
			BorrowerID: uuid.New(),
			Principal:  decimal.NewFromInt(100000),
			AnnualRate: decimal.NewFromInt(10),
			TermMonths: 12,
			EMI:        decimal.NewFromFloat(8791.59),
			CreatedAt:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		BorrowerName:  "Asha Rao",
		BorrowerEmail: "asha@example.com",
	}
}

func TestRenderStatement(t *testing.T) {
	payments := []*domain.Payment{
		{
			ID:          uuid.New(),
			Amount:      decimal.NewFromFloat(8791.59),
			PaymentDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			CreatedAt:   time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	out, err := RenderStatement(testLoan(), payments)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderStatement_NoPayments(t *testing.T) {
	out, err := RenderStatement(testLoan(), nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderStatement_ManyPaymentsPaginates(t *testing.T) {
	payments := make([]*domain.Payment, 0, 200)
	for i := 0; i < 200; i++ {
		payments = append(payments, &domain.Payment{
			ID:          uuid.New(),
			Amount:      decimal.NewFromFloat(8791.59),
			PaymentDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			CreatedAt:   time.Now(),
		})
	}

	long, err := RenderStatement(testLoan(), payments)
	require.NoError(t, err)

	short, err := RenderStatement(testLoan(), payments[:1])
	require.NoError(t, err)

	assert.Greater(t, len(long), len(short))
}
