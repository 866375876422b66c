package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/danutama/loan-tracker/internal/notify"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) LoanCreated(ctx context.Context, phone string, notice notify.LoanNotice) (bool, string) {
	args := m.Called(ctx, phone, notice)
	return args.Bool(0), args.String(1)
}

func (m *MockDispatcher) PaymentRecorded(ctx context.Context, phone string, notice notify.PaymentNotice) (bool, string) {
	args := m.Called(ctx, phone, notice)
	return args.Bool(0), args.String(1)
}

func (m *MockDispatcher) EMIDue(ctx context.Context, phone string, notice notify.ReminderNotice) (bool, string) {
	args := m.Called(ctx, phone, notice)
	return args.Bool(0), args.String(1)
}
