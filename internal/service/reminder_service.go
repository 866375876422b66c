package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/danutama/loan-tracker/internal/notify"
	"github.com/danutama/loan-tracker/internal/repository"
	"github.com/danutama/loan-tracker/pkg/finance"
)

// ReminderService sends EMI-due reminders for every loan that still carries
// a positive remaining balance. It runs from the scheduler binary; dispatch
// failures are logged and skipped, never fatal.
type ReminderService struct {
	Loans      repository.LoanRepository
	Payments   repository.PaymentRepository
	dispatcher notify.Dispatcher
	phone      string
	logger     *logrus.Logger
}

func NewReminderService(
	loans repository.LoanRepository,
	payments repository.PaymentRepository,
	dispatcher notify.Dispatcher,
	phone string,
	logger *logrus.Logger,
) *ReminderService {
	return &ReminderService{
		Loans:      loans,
		Payments:   payments,
		dispatcher: dispatcher,
		phone:      phone,
		logger:     logger,
	}
}

// Run scans the ledger once and dispatches one reminder per open loan.
// Returns the number of reminders sent.
func (s *ReminderService) Run(ctx context.Context) (int, error) {
	if s.phone == "" {
		s.logger.Info("no reminder destination configured, skipping run")
		return 0, nil
	}

	loans, err := s.Loans.ListAllWithBorrower(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, loan := range loans {
		totalPaid, err := s.Payments.SumByLoan(ctx, loan.ID)
		if err != nil {
			s.logger.WithError(err).WithField("loan_id", loan.ID).Warn("skipping loan, could not sum payments")
			continue
		}

		balance := finance.Aggregate(loan.EMI, loan.TermMonths, []decimal.Decimal{totalPaid})
		if !balance.Remaining.IsPositive() {
			continue
		}

		ok, msg := s.dispatcher.EMIDue(ctx, s.phone, notify.ReminderNotice{
			BorrowerName: loan.BorrowerName,
			LoanID:       loan.ID.String(),
			EMI:          loan.EMI,
			Remaining:    balance.Remaining,
		})
		if !ok {
			s.logger.WithFields(logrus.Fields{"loan_id": loan.ID, "reason": msg}).Warn("reminder dispatch failed")
			continue
		}
		sent++
	}

	s.logger.WithField("sent", sent).Info("reminder run complete")

	return sent, nil
}
