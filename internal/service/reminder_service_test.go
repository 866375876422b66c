package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/danutama/loan-tracker/internal/domain"
	"github.com/danutama/loan-tracker/internal/notify"
	"github.com/danutama/loan-tracker/tests/mocks"
)

func TestReminderRun_SkipsSettledLoans(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockDispatcher := &mocks.MockDispatcher{}

	open := openLoan(uuid.New())
	settled := openLoan(uuid.New())

	service := NewReminderService(mockLoanRepo, mockPaymentRepo, mockDispatcher, "+15550001111", testLogger())

	mockLoanRepo.On("ListAllWithBorrower", mock.Anything).Return([]*domain.LoanWithBorrower{open, settled}, nil)
	mockPaymentRepo.On("SumByLoan", mock.Anything, open.ID).Return(decimal.Zero, nil)
	// Fully paid: EMI 8791.59 over 12 months.
	mockPaymentRepo.On("SumByLoan", mock.Anything, settled.ID).Return(decimal.RequireFromString("105499.08"), nil)

	mockDispatcher.On("EMIDue", mock.Anything, "+15550001111", mock.MatchedBy(func(n notify.ReminderNotice) bool {
		return n.LoanID == open.ID.String()
	})).Return(true, "SMS sent successfully (SID: SM123)")

	sent, err := service.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	mockDispatcher.AssertNumberOfCalls(t, "EMIDue", 1)
}

func TestReminderRun_NoDestinationConfigured(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	service := NewReminderService(mockLoanRepo, &mocks.MockPaymentRepository{}, &mocks.MockDispatcher{}, "", testLogger())

	sent, err := service.Run(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, sent)
	mockLoanRepo.AssertNotCalled(t, "ListAllWithBorrower")
}

func TestReminderRun_DispatchFailureDoesNotCount(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockDispatcher := &mocks.MockDispatcher{}

	open := openLoan(uuid.New())
	service := NewReminderService(mockLoanRepo, mockPaymentRepo, mockDispatcher, "+15550001111", testLogger())

	mockLoanRepo.On("ListAllWithBorrower", mock.Anything).Return([]*domain.LoanWithBorrower{open}, nil)
	mockPaymentRepo.On("SumByLoan", mock.Anything, open.ID).Return(decimal.Zero, nil)
	mockDispatcher.On("EMIDue", mock.Anything, mock.Anything, mock.Anything).Return(false, "Failed to send SMS: gateway timeout")

	sent, err := service.Run(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, sent)
}
